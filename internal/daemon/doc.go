// Package daemon coordinates the captioning runtime and enforces
// single-instance execution.
package daemon
