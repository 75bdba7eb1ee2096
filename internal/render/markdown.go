package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Markdown converts post bodies to HTML. MDX component tags are not
// executed; raw HTML is dropped unless Unsafe is set.
type Markdown struct {
	md goldmark.Markdown
}

type Option func(*options)

type options struct {
	unsafe    bool
	hardWraps bool
}

// WithUnsafe keeps raw HTML blocks found in the body.
func WithUnsafe() Option {
	return func(o *options) { o.unsafe = true }
}

// WithHardWraps renders single newlines in a paragraph as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

func NewMarkdown(opts ...Option) *Markdown {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var rendererOpts []goldmark.Option
	var htmlOpts []renderer.Option
	if o.unsafe {
		htmlOpts = append(htmlOpts, gmhtml.WithUnsafe())
	}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}
	if len(htmlOpts) > 0 {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)...)

	return &Markdown{md: md}
}

// Render converts src to HTML.
func (m *Markdown) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
