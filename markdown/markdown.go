// Package markdown provides the small line-oriented Markdown-to-HTML renderer
// used for blog posts, plus frontmatter parsing and excerpt helpers.
package markdown

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	reRule        = regexp.MustCompile(`^-{3,}$`)
	reOrderedList = regexp.MustCompile(`^(\d+)\.\s+`)
	reBold        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic      = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reLink        = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// RenderMarkdown writes the HTML representation of md to buf. Block elements
// are separated by a single newline.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")

	var (
		para     []string
		list     []string
		ordered  []string
		quote    []string
		code     []string
		inCode   bool
		codeLang string
		wroteAny bool
	)

	emit := func(block string) {
		if wroteAny {
			buf.WriteString("\n")
		}
		buf.WriteString(block)
		wroteAny = true
	}
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		emit("<p>" + FormatInline(strings.Join(para, " ")) + "</p>")
		para = nil
	}
	flushList := func() {
		if len(list) == 0 {
			return
		}
		emit("<ul>" + joinItems(list) + "</ul>")
		list = nil
	}
	flushOrdered := func() {
		if len(ordered) == 0 {
			return
		}
		emit("<ol>" + joinItems(ordered) + "</ol>")
		ordered = nil
	}
	flushQuote := func() {
		if len(quote) == 0 {
			return
		}
		emit("<blockquote><p>" + FormatInline(strings.Join(quote, " ")) + "</p></blockquote>")
		quote = nil
	}
	flushBlocks := func() {
		flushPara()
		flushList()
		flushOrdered()
		flushQuote()
	}
	flushCode := func() {
		var b strings.Builder
		if codeLang != "" {
			lang := html.EscapeString(codeLang)
			b.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + lang + `">` + lang + `</span>`)
			b.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
		} else {
			b.WriteString(`<pre class="code-block"><code>`)
		}
		for _, l := range code {
			b.WriteString(html.EscapeString(l))
			b.WriteString("\n")
		}
		b.WriteString("</code></pre>")
		if codeLang != "" {
			b.WriteString("</div>")
		}
		emit(b.String())
		code = nil
		codeLang = ""
		inCode = false
	}

	for _, raw := range lines {
		if inCode {
			if strings.HasPrefix(strings.TrimSpace(raw), "```") {
				flushCode()
				continue
			}
			code = append(code, raw)
			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			flushBlocks()
			continue
		}

		switch {
		case strings.HasPrefix(line, "```"):
			flushBlocks()
			inCode = true
			codeLang = strings.TrimSpace(line[3:])
		case reHeading.MatchString(line):
			flushBlocks()
			m := reHeading.FindStringSubmatch(line)
			level := strconv.Itoa(len(m[1]))
			emit("<h" + level + ">" + FormatInline(strings.TrimSpace(m[2])) + "</h" + level + ">")
		case reRule.MatchString(line):
			flushBlocks()
			emit("<hr/>")
		case strings.HasPrefix(line, "- "):
			flushPara()
			flushOrdered()
			flushQuote()
			list = append(list, FormatInline(strings.TrimSpace(line[2:])))
		case reOrderedList.MatchString(line):
			flushPara()
			flushList()
			flushQuote()
			ordered = append(ordered, FormatInline(reOrderedList.ReplaceAllString(line, "")))
		case strings.HasPrefix(line, "> ") || line == ">":
			flushPara()
			flushList()
			flushOrdered()
			quote = append(quote, strings.TrimSpace(strings.TrimPrefix(line, ">")))
		default:
			flushList()
			flushOrdered()
			flushQuote()
			para = append(para, line)
		}
	}
	// An unterminated fence still renders what it collected.
	if inCode {
		flushCode()
	}
	flushBlocks()
}

func joinItems(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	return b.String()
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes, etc.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies inline formatting (links, inline code,
// bold, italic).
func FormatInline(s string) string {
	// NUL delimits the inline code placeholders below.
	escaped := html.EscapeString(strings.ReplaceAll(s, "\x00", ""))
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := `class="inline-link"`
		if IsExternal(html.UnescapeString(href)) {
			attrs += ` target="_blank" rel="noreferrer"`
		}
		return `<a href="` + href + `" ` + attrs + `>` + match[1] + `</a>`
	})
	// Inline code: extract and replace with placeholders so bold/italic
	// regex does not format content inside backticks.
	var inlineCodeBlocks []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00IC" + strconv.Itoa(len(inlineCodeBlocks)) + "\x00"
		inlineCodeBlocks = append(inlineCodeBlocks, "<code>"+match[1]+"</code>")
		return placeholder
	})
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
	for i, code := range inlineCodeBlocks {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") || strings.HasPrefix(val, "./") || strings.HasPrefix(val, "../") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return ""
	}
	if parsed.Scheme == "" {
		// Bare relative paths such as "other-post.html".
		if strings.Contains(val, ":") {
			return ""
		}
		return html.EscapeString(val)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// IsExternal reports whether href is an absolute http(s) URL.
func IsExternal(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
