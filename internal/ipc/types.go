package ipc

import "time"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running             bool   `json:"running"`
	PID                 int    `json:"pid"`
	SessionCount        int    `json:"session_count"`
	MaxSessions         int    `json:"max_sessions"`
	RecognizerListening bool   `json:"recognizer_listening"`
	ArchivePath         string `json:"archive_path"`
	LockPath            string `json:"lock_path"`
	SocketPath          string `json:"socket_path"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// Session is the wire representation of one live session.
type Session struct {
	ID           string    `json:"id"`
	MediumID     string    `json:"medium_id"`
	Label        string    `json:"label"`
	State        string    `json:"state"`
	Message      string    `json:"message,omitempty"`
	Playing      bool      `json:"playing"`
	Position     float64   `json:"position"`
	Rate         float64   `json:"rate"`
	HasAudio     bool      `json:"has_audio"`
	QueueLength  int       `json:"queue_length"`
	Transcript   string    `json:"transcript,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// SessionListRequest fetches every live session.
type SessionListRequest struct{}

// SessionListResponse contains live sessions ordered by creation time.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// SessionDescribeRequest fetches a single session by id.
type SessionDescribeRequest struct {
	ID string `json:"id"`
}

// SessionDescribeResponse contains a single session.
type SessionDescribeResponse struct {
	Session Session `json:"session"`
}

// SessionRemoveRequest tears down a session.
type SessionRemoveRequest struct {
	ID string `json:"id"`
}

// SessionRemoveResponse reports whether the session existed.
type SessionRemoveResponse struct {
	Removed bool `json:"removed"`
}

// HistoryEntry is one archived caption.
type HistoryEntry struct {
	CaptionID   string    `json:"caption_id"`
	SessionID   string    `json:"session_id"`
	MediumLabel string    `json:"medium_label"`
	Text        string    `json:"text"`
	StartTime   float64   `json:"start_time"`
	EndTime     float64   `json:"end_time"`
	Confidence  float64   `json:"confidence"`
	DisplayedAt time.Time `json:"displayed_at"`
}

// HistoryRequest fetches archived captions, optionally scoped to one
// session.
type HistoryRequest struct {
	SessionID string `json:"session_id"`
	Limit     int    `json:"limit"`
}

// HistoryResponse contains archived captions.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// Report is one recorded pipeline failure.
type Report struct {
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
}

// ReportsRequest fetches recent pipeline failures.
type ReportsRequest struct {
	Limit int `json:"limit"`
}

// ReportsResponse contains failures newest first.
type ReportsResponse struct {
	Reports []Report `json:"reports"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
