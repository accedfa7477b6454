// Package recognizer arbitrates the single shared speech recognition engine
// across sessions.
package recognizer
