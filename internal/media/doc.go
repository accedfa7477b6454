// Package media declares the contracts for the host-side collaborators the
// daemon orchestrates: audio capture, speech recognition, caption rendering,
// and media detection. Implementations live at the embedding boundary; the
// packages in this module depend only on these interfaces.
package media
