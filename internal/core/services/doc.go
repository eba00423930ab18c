// Package services implements the driving port interfaces.
//
// IngestService turns files into indexed chunks, AskService routes,
// retrieves and answers, and the remaining services expose the index,
// the interaction log and settings. Services only talk to driven ports
// and never import adapters.
package services
