// Package memory provides in-memory implementations of driven ports.
// They back unit tests and throwaway sessions; nothing survives the process.
package memory
