// Package archive persists displayed captions to SQLite so past sessions
// can be reviewed after their media and sessions are gone.
package archive
