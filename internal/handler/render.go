// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	narrativeMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	narrativePolicy = bluemonday.UGCPolicy()
)

// renderNarrative converts community-submitted markdown into sanitized
// HTML for the public read endpoints. On render failure it falls back to
// the escaped plain text rather than failing the request.
func renderNarrative(source string) string {
	var buf bytes.Buffer
	if err := narrativeMarkdown.Convert([]byte(source), &buf); err != nil {
		slog.Warn("narrative render failed, serving escaped text", "error", err)
		return narrativePolicy.Sanitize(source)
	}
	return narrativePolicy.Sanitize(buf.String())
}
