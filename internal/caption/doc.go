// Package caption holds the per-session caption queue. Captions are kept
// ordered by media start time so the synchronizer can scan for the entry
// covering the current playback position.
package caption
