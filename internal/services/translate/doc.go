// Package translate implements the translation collaborator against an
// HTTP translation API.
package translate
