package tui

import "errors"

// Errors returned by Ports.Validate and NewApp.
var (
	ErrInvalidPorts           = errors.New("tui: invalid ports configuration")
	ErrMissingAskService      = errors.New("tui: ask service is required")
	ErrMissingDocumentService = errors.New("tui: document service is required")
)
