package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const excerptLimit = 180

var (
	reFrontmatter  = regexp.MustCompile(`^---\n([\s\S]*?)\n---\n?`)
	reLeadingTitle = regexp.MustCompile(`^#\s+[^\n]+\n+`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Frontmatter holds the key/value pairs of a post's leading metadata block.
type Frontmatter map[string]string

// Get returns the first non-empty value among keys.
func (f Frontmatter) Get(keys ...string) string {
	for _, k := range keys {
		if v := f[k]; v != "" {
			return v
		}
	}
	return ""
}

// ParseFrontmatter splits raw into its frontmatter block and the trimmed body.
// Each metadata line splits at the first colon; the value may contain more.
// Input without a leading "---" block yields empty metadata.
func ParseFrontmatter(raw string) (Frontmatter, string) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	meta := Frontmatter{}

	loc := reFrontmatter.FindStringSubmatchIndex(raw)
	if loc == nil {
		return meta, strings.TrimSpace(raw)
	}

	block := raw[loc[2]:loc[3]]
	for _, line := range strings.Split(block, "\n") {
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = strings.TrimSpace(value)
	}
	return meta, strings.TrimSpace(raw[loc[1]:])
}

// StripLeadingTitle removes a leading "# Title" line, since the page shell
// renders the title itself.
func StripLeadingTitle(body string) string {
	return strings.TrimSpace(reLeadingTitle.ReplaceAllString(body, ""))
}

// ExtractExcerpt returns the first non-heading line of body, whitespace
// collapsed and cut to 180 characters.
func ExtractExcerpt(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = reWhitespace.ReplaceAllString(line, " ")
		if utf8.RuneCountInString(line) > excerptLimit {
			line = string([]rune(line)[:excerptLimit])
		}
		return line
	}
	return ""
}
