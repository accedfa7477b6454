// Package language normalizes the BCP-47 language hints used by the
// recognition and translation collaborators.
package language
