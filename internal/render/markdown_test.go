package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading gets an id",
			src:      "## Local SEO basics\n",
			contains: []string{`<h2 id="local-seo-basics">Local SEO basics</h2>`},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "gfm strikethrough",
			src:      "~~old~~",
			contains: []string{"<del>old</del>"},
		},
		{
			name:     "raw html dropped by default",
			src:      "<script>alert(1)</script>\n",
			excludes: []string{"<script>"},
		},
		{
			name: "empty body",
			src:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := md.Render(tt.src)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, string(out), unwanted)
			}
		})
	}
}

func TestMarkdown_Unsafe(t *testing.T) {
	out, err := NewMarkdown(WithUnsafe()).Render("<div class=\"cta\">Book a call</div>\n")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="cta">Book a call</div>`)
}

func TestMarkdown_HardWraps(t *testing.T) {
	src := "Line one\nLine two\n"

	out, err := NewMarkdown().Render(src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<br")

	out, err = NewMarkdown(WithHardWraps()).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Line one<br>\nLine two")
}

func TestMarkdown_UnsafeAndHardWrapsCombine(t *testing.T) {
	out, err := NewMarkdown(WithUnsafe(), WithHardWraps()).Render("<span>a</span>\nb\n")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<span>a</span><br>")
}
