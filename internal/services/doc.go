// Package services holds the shared error taxonomy and context annotation
// helpers used by the caption pipeline's external collaborators.
package services
