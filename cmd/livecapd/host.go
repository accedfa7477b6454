package main

import "livecap/internal/media"

// Host adapter seams. A platform build replaces these with bindings to the
// page bridge that delivers media detection, tab audio, the speech engine,
// and the caption overlay. The default build returns nil for the engines,
// which the manager treats as a degraded host: sessions are tracked but
// park in no-audio until an adapter attaches.

func hostCapture() media.Capture { return nil }

func hostRecognizer() media.Recognizer { return nil }

func hostDetectionFeed() media.DetectionFeed { return nil }

func hostRenderSurface() media.RenderSurface { return media.NoopRenderSurface{} }

func hostStatusSurface() media.StatusSurface { return media.NoopStatusSurface{} }
