// Package ipc exposes daemon control via JSON-RPC over a Unix domain
// socket.
package ipc
