// Package file keeps settings and prompts under the user's ragdesk
// directory: config.toml through ConfigStore, and one editable text file
// per prompt through PromptStore.
package file
