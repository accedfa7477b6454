package media

import "context"

// NoopRenderSurface discards captions. Used when the daemon runs headless.
type NoopRenderSurface struct{}

func (NoopRenderSurface) DisplayCaption(string, string, CaptionAttributes) {}
func (NoopRenderSurface) ClearCaption(string)                              {}

// NoopStatusSurface discards status updates.
type NoopStatusSurface struct{}

func (NoopStatusSurface) PublishStatus(StatusUpdate) {}

// NoopTranslator passes text through unchanged at full confidence.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text, _, _ string) (Translation, error) {
	return Translation{Text: text, Confidence: 1.0}, nil
}
