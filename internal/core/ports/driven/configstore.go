package driven

// ConfigReader reads flat, dot-separated settings keys such as "llm.model".
// Typed getters return the zero value for a missing key or a value of
// another type; GetFloat also accepts integers.
type ConfigReader interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string
}

// ConfigStore is the persisted settings file behind SettingsService.
// Set and Delete only change memory; Save writes the file and Load
// replaces memory with its contents.
type ConfigStore interface {
	ConfigReader

	Set(key string, value any) error
	Delete(key string)
	Save() error
	Load() error

	// Path is the file shown by `settings show`.
	Path() string
}
