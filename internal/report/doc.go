// Package report keeps a bounded in-memory ring of pipeline failure reports
// for inspection over the control socket.
package report
