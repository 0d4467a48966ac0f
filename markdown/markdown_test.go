package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
		{"snake_case_name stays", "snake_case_name stays"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineNested(t *testing.T) {
	input := "**bold *italic* text**"
	expected := "<strong>bold <em>italic</em> text</strong>"
	if got := FormatInline(input); got != expected {
		t.Errorf("FormatInline(%q) = %q, want %q", input, got, expected)
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a < b & c > d", "a &lt; b &amp; c &gt; d"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Docs](https://example.com/my_page)",
			`<a href="https://example.com/my_page" class="inline-link" target="_blank" rel="noreferrer">Docs</a>`,
		},
		{
			"see [home](/index.html)",
			`see <a href="/index.html" class="inline-link">home</a>`,
		},
		{
			"[next](other-post.html)",
			`<a href="other-post.html" class="inline-link">next</a>`,
		},
		{
			"[bad](javascript:alert)",
			"bad",
		},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`**not bold**`", "<code>**not bold**</code>"},
		{"a \x00IC0\x00 `x`", "a IC0 <code>x</code>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
		{"#### Heading 4", "<h4>Heading 4</h4>"},
		{"###### Heading 6", "<h6>Heading 6</h6>"},
		{"##  **Bold** heading", "<h2><strong>Bold</strong> heading</h2>"},
		{"#NoSpace", "<p>#NoSpace</p>"},
		{"####### seven", "<p>####### seven</p>"},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownList(t *testing.T) {
	input := "- item 1\n- item **2**\n- item 3"
	expected := "<ul><li>item 1</li><li>item <strong>2</strong></li><li>item 3</li></ul>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestRenderMarkdownOrderedList(t *testing.T) {
	input := "1. first\n2. second\n3. third"
	expected := "<ol><li>first</li><li>second</li><li>third</li></ol>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestRenderMarkdownParagraphJoinsLines(t *testing.T) {
	input := "first line\nsecond *line*"
	expected := "<p>first line second <em>line</em></p>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestRenderMarkdownBlankLinesCloseBlocks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"one\n\ntwo", "<p>one</p>\n<p>two</p>"},
		{"- a\n- b\n\n- c", "<ul><li>a</li><li>b</li></ul>\n<ul><li>c</li></ul>"},
		{"intro\n- a\n- b\n\nafter", "<p>intro</p>\n<ul><li>a</li><li>b</li></ul>\n<p>after</p>"},
		{"- a\ntext", "<ul><li>a</li></ul>\n<p>text</p>"},
		{"para\n# Head\nmore", "<p>para</p>\n<h1>Head</h1>\n<p>more</p>"},
		{"\n\n   \n", ""},
	}
	for _, tt := range tests {
		got := render(tt.input)
		if got != tt.expected {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownCRLF(t *testing.T) {
	input := "# Title\r\n\r\nbody\r\n"
	expected := "<h1>Title</h1>\n<p>body</p>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	got := render("```\n<b>code</b> here\n```")
	expected := "<pre class=\"code-block\"><code>&lt;b&gt;code&lt;/b&gt; here\n</code></pre>"
	if got != expected {
		t.Errorf("RenderMarkdown code block = %q, want %q", got, expected)
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render("```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, `<span class="code-lang code-lang-go">go</span>`) {
		t.Errorf("code block should have language badge: %q", got)
	}
	if !strings.HasSuffix(got, "</code></pre></div>") {
		t.Errorf("wrapper div should be closed: %q", got)
	}
}

func TestRenderMarkdownCodeBlockKeepsMarkdownLiteral(t *testing.T) {
	got := render("```\n- not a list\n# not a heading\n```")
	if strings.Contains(got, "<li>") || strings.Contains(got, "<h1>") {
		t.Errorf("code block content must not be parsed: %q", got)
	}
}

func TestRenderMarkdownUnterminatedCodeBlock(t *testing.T) {
	got := render("```\nstill code")
	if !strings.Contains(got, "still code") || !strings.HasSuffix(got, "</code></pre>") {
		t.Errorf("unterminated code block = %q", got)
	}
}

func TestRenderMarkdownBlockquote(t *testing.T) {
	input := "> quoted\n> *text*"
	expected := "<blockquote><p>quoted <em>text</em></p></blockquote>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestRenderMarkdownRule(t *testing.T) {
	input := "above\n\n---\n\nbelow"
	expected := "<p>above</p>\n<hr/>\n<p>below</p>"
	if got := render(input); got != expected {
		t.Errorf("RenderMarkdown(%q) = %q, want %q", input, got, expected)
	}
}

func TestNewEngine(t *testing.T) {
	if _, err := New("builtin"); err != nil {
		t.Fatalf("New(builtin) error: %v", err)
	}
	if _, err := New(""); err != nil {
		t.Fatalf("New(\"\") error: %v", err)
	}
	if _, err := New("pandoc"); err == nil {
		t.Fatal("New(pandoc) should fail")
	}
}

func TestGoldmarkRenderer(t *testing.T) {
	r, err := New(EngineGoldmark)
	if err != nil {
		t.Fatalf("New(goldmark) error: %v", err)
	}
	got, err := r.Render("## Setup\n\n- one\n- two\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, want := range []string{`<h2 id="setup">Setup</h2>`, "<li>one</li>", "<table>"} {
		if !strings.Contains(got, want) {
			t.Errorf("goldmark output missing %q: %q", want, got)
		}
	}
}
