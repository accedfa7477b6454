package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"livecap/internal/config"
)

const userAgent = "Livecap/0.1.0"

// Service defines the notification surface exposed to the session manager
// and daemon.
type Service interface {
	NotifySessionStarted(ctx context.Context, sessionID, mediumLabel string) error
	NotifySessionEnded(ctx context.Context, sessionID, mediumLabel, reason string) error
	NotifyNoAudio(ctx context.Context, sessionID, mediumLabel string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		sessionEvents: cfg.Notifications.Sessions,
		errorEvents:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	sessionEvents bool
	errorEvents   bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, sessionID, mediumLabel string) error {
	if !n.sessionEvents {
		return nil
	}
	data := payload{
		title:   "Livecap - Session Started",
		message: fmt.Sprintf("Captioning started: %s", describeMedium(sessionID, mediumLabel)),
		tags:    []string{"livecap", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionEnded(ctx context.Context, sessionID, mediumLabel, reason string) error {
	if !n.sessionEvents {
		return nil
	}
	message := fmt.Sprintf("Captioning ended: %s", describeMedium(sessionID, mediumLabel))
	if reason = strings.TrimSpace(reason); reason != "" {
		message = fmt.Sprintf("%s (%s)", message, reason)
	}
	data := payload{
		title:   "Livecap - Session Ended",
		message: message,
		tags:    []string{"livecap", "session", "ended"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNoAudio(ctx context.Context, sessionID, mediumLabel string) error {
	if !n.sessionEvents {
		return nil
	}
	data := payload{
		title:   "Livecap - No Audio",
		message: fmt.Sprintf("No capturable audio: %s", describeMedium(sessionID, mediumLabel)),
		tags:    []string{"livecap", "session", "no-audio"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" in ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Livecap - Error",
		message:  builder.String(),
		tags:     []string{"livecap", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Livecap - Test",
		message:  "Notification system test",
		tags:     []string{"livecap", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func describeMedium(sessionID, mediumLabel string) string {
	if mediumLabel = strings.TrimSpace(mediumLabel); mediumLabel != "" {
		return mediumLabel
	}
	return sessionID
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, string, string) error       { return nil }
func (noopService) NotifySessionEnded(context.Context, string, string, string) error { return nil }
func (noopService) NotifyNoAudio(context.Context, string, string) error              { return nil }
func (noopService) NotifyError(context.Context, error, string) error                 { return nil }
func (noopService) TestNotification(context.Context) error                           { return nil }
