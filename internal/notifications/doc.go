// Package notifications delivers push notifications about session lifecycle
// and pipeline failures through ntfy.
package notifications
