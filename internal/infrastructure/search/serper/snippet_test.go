package serper

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanSnippet_StripsHighlightTags(t *testing.T) {
	out := CleanSnippet(`The <b>Charminar</b> was built in <em>1591</em>.`)

	if out != "The Charminar was built in 1591." {
		t.Errorf("unexpected snippet: %q", out)
	}
}

func TestCleanSnippet_DecodesEntities(t *testing.T) {
	out := CleanSnippet(`Biryani &amp; Haleem &#8211; local favourites`)

	if out != "Biryani & Haleem – local favourites" {
		t.Errorf("entities must be decoded, got %q", out)
	}
}

func TestCleanSnippet_DropsScriptAndStyle(t *testing.T) {
	out := CleanSnippet(`Open daily<script>track()</script><style>.x{}</style> 9am-5pm`)

	if strings.Contains(out, "track") || strings.Contains(out, ".x") {
		t.Errorf("script/style content must be removed, got %q", out)
	}
	if !strings.Contains(out, "Open daily") || !strings.Contains(out, "9am-5pm") {
		t.Errorf("visible text must remain, got %q", out)
	}
}

func TestCleanSnippet_CollapsesWhitespace(t *testing.T) {
	out := CleanSnippet("Golconda\n\n   Fort<br>Hyderabad")

	if out != "Golconda Fort Hyderabad" {
		t.Errorf("whitespace must collapse, got %q", out)
	}
}

func TestCleanSnippet_Truncation(t *testing.T) {
	out := CleanSnippet(strings.Repeat("é", 1000))

	if !strings.HasSuffix(out, "…") {
		t.Errorf("truncation marker must appear")
	}
	if len(out) > maxSnippetLen+len("…") {
		t.Errorf("snippet must be bounded, got %d bytes", len(out))
	}
	if !utf8.ValidString(out) {
		t.Errorf("truncation must not split runes")
	}
}

func TestCleanSnippet_Empty(t *testing.T) {
	if out := CleanSnippet(""); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
