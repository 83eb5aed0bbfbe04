package serper

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

const maxSnippetLen = 600

// skippedTags never contribute text to a snippet.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// CleanSnippet reduces an HTML-bearing fragment (highlight tags, entities,
// stray markup) to plain, whitespace-collapsed text bounded to maxSnippetLen.
func CleanSnippet(raw string) string {
	if raw == "" {
		return ""
	}

	var sb strings.Builder
	skipDepth := 0
	z := html.NewTokenizer(strings.NewReader(raw))

loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return truncate(collapseSpaces(raw))
			}
			break loop
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if skippedTags[string(name)] {
				skipDepth++
			}
			if string(name) == "br" || string(name) == "p" || string(name) == "li" {
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		}
	}

	return truncate(collapseSpaces(sb.String()))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	cut := maxSnippetLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
