package domain

import "strings"

// Category groups file extensions under a keyword the user may say,
// such as "spreadsheet" or "image".
type Category struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// HasExtension reports whether ext (with or without leading dot) belongs to
// the category.
func (c Category) HasExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range c.Extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// CategoryTable is the keyword table used by the document router.
type CategoryTable []Category

// DefaultCategoryTable returns the built-in category table.
func DefaultCategoryTable() CategoryTable {
	return CategoryTable{
		{Name: "image", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}},
		{Name: "audio", Extensions: []string{".wav", ".mp3", ".m4a", ".flac", ".ogg"}},
		{Name: "video", Extensions: []string{".mp4", ".avi", ".mov", ".mkv"}},
		{Name: "spreadsheet", Extensions: []string{".csv", ".xlsx", ".xls"}},
		{Name: "document", Extensions: []string{".pdf", ".docx", ".doc", ".txt"}},
		{Name: "code", Extensions: []string{".html", ".xml", ".json", ".py", ".js"}},
		{Name: "archive", Extensions: []string{".zip", ".7z"}},
	}
}
