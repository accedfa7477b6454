// Package session defines the per-medium captioning session: its lifecycle
// states, the caption queue and playback clock it owns, and the activity
// bookkeeping the manager's sweep and attribution logic read.
package session
