// Package domain holds the types every other ragdesk package shares:
// documents and their chunks, search results and answers, interaction
// log entries, settings, and the sentinel errors callers match with
// errors.Is.
//
// It imports nothing outside the standard library.
package domain
