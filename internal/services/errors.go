package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCapture marks audio capture failures; sessions degrade to no-audio or error.
	ErrCapture = errors.New("capture error")
	// ErrRecognition marks speech recognition init or streaming failures.
	ErrRecognition = errors.New("recognition error")
	// ErrTranslation marks translation failures; callers fall back to the untranslated transcript.
	ErrTranslation = errors.New("translation error")
	// ErrAttribution marks recognizer results that cannot be matched to a session.
	ErrAttribution = errors.New("attribution error")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks failures worth retrying on a later playback event.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for an error produced by Wrap.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCapture):
		return "capture"
	case errors.Is(err, ErrRecognition):
		return "recognition"
	case errors.Is(err, ErrTranslation):
		return "translation"
	case errors.Is(err, ErrAttribution):
		return "attribution"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
