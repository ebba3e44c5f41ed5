package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{name: "plain sentence", src: "I have an apple.", contains: []string{"<p>I have an apple.</p>"}},
		{name: "bold", src: "**Summary:** short", contains: []string{"<strong>Summary:</strong>"}},
		{name: "bullet summary", src: "- first point\n- second point", contains: []string{"<ul>", "<li>first point</li>"}},
		{name: "paragraphs", src: "one\n\ntwo", contains: []string{"<p>one</p>", "<p>two</p>"}},
		{name: "strikethrough", src: "~~old~~ new", contains: []string{"<del>old</del>"}},
		{name: "link", src: "[docs](https://example.com)", contains: []string{`<a href="https://example.com"`}},
		{name: "script stripped", src: `<script>alert("x")</script>hi`, excludes: []string{"<script>"}},
		{name: "event handler stripped", src: `<img src="x.png" onerror="alert(1)">`, excludes: []string{"onerror"}},
		{name: "javascript link stripped", src: "[x](javascript:alert(1))", excludes: []string{"javascript:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderMarkdown(tt.src)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}
