// Package manager owns the session collection: it creates a session per
// detected medium, wires capture, attributes shared recognizer output,
// drives translation and caption enqueueing, and applies the inactivity
// sweep policy.
package manager
