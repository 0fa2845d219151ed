package content

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"
	"golang.org/x/net/html"
)

const defaultLanguage = "en"

// DetectLanguage picks "ja" for text dominated by Japanese script when "ja"
// is supported and falls back to "en" otherwise.
func DetectLanguage(text string, supported []string) string {
	if strings.TrimSpace(text) == "" {
		return defaultLanguage
	}
	var letters, japanese int
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			japanese++
			letters++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if letters > 0 && japanese*5 >= letters && slices.Contains(supported, "ja") {
		return "ja"
	}
	return defaultLanguage
}

var (
	plainURLPattern    = regexp.MustCompile(`https?://[^\s)"'<>\]]+`)
	markdownURLPattern = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)`)
)

// ExtractURLs collects absolute links from plain text, markdown links and
// inline HTML anchors, de-duplicated and sorted.
func ExtractURLs(markdown string) []string {
	if markdown == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	add := func(u string) {
		u = strings.TrimRight(u, ".,;:!?")
		if u != "" {
			seen[u] = struct{}{}
		}
	}
	for _, u := range plainURLPattern.FindAllString(markdown, -1) {
		add(u)
	}
	for _, m := range markdownURLPattern.FindAllStringSubmatch(markdown, -1) {
		add(m[1])
	}
	for _, u := range anchorHrefs(markdown) {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			add(u)
		}
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func anchorHrefs(text string) []string {
	var hrefs []string
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return hrefs
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
	}
}

// FallbackKeywords ranks words by frequency after dropping English stopwords.
func FallbackKeywords(text string, limit int) []string {
	sw := stopwords.MustGet("en")
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-'
	})
	for _, w := range words {
		w = strings.Trim(w, "-_")
		if len([]rune(w)) < 3 || sw.Contains(w) {
			continue
		}
		counts[w]++
	}
	keys := make([]string, 0, len(counts))
	for w := range counts {
		keys = append(keys, w)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// TruncateSummary keeps the first 30 words of text.
func TruncateSummary(text string) string {
	words := strings.Fields(text)
	if len(words) > 30 {
		return strings.Join(words[:30], " ") + "..."
	}
	return text
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// CleanMarkdown normalizes line endings, strips trailing spaces and collapses
// runs of blank lines.
func CleanMarkdown(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
