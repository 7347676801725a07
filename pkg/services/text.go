package services

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(htmlrenderer.WithHardWraps()),
	)
)

// StripTags removes all markup and returns plain text.
func StripTags(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// SanitizeText strips markup and collapses whitespace, including line breaks.
func SanitizeText(s string) string {
	return strings.Join(strings.Fields(StripTags(s)), " ")
}

// SanitizeTextarea is SanitizeText applied per line, keeping line breaks.
func SanitizeTextarea(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = SanitizeText(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// RenderMarkdown converts a record body to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// TrimWords keeps the first n words of the plain text of s, appending an
// ellipsis when words were dropped.
func TrimWords(s string, n int) string {
	words := strings.Fields(StripTags(s))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}

// Paragraphs splits text on blank lines; each paragraph keeps its lines.
func Paragraphs(text string) [][]string {
	var out [][]string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, lines)
		}
	}
	return out
}
