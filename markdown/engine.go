package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Engine names accepted by New.
const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// Renderer converts a Markdown post body to an HTML fragment.
type Renderer interface {
	Render(md string) (string, error)
}

// New returns the renderer registered under engine. An empty name selects
// the builtin renderer.
func New(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineBuiltin:
		return Builtin{}, nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("markdown: unknown engine %q", engine)
	}
}

// Builtin is the line-oriented renderer implemented by RenderMarkdown.
type Builtin struct{}

func (Builtin) Render(md string) (string, error) {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String(), nil
}

// Goldmark renders CommonMark plus GFM extensions. Raw HTML in posts is
// dropped, matching the builtin renderer which escapes it.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark constructs a goldmark-backed renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (g *Goldmark) Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("markdown parse: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
