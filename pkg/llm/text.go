package llm

import (
	"regexp"
	"strings"
)

// tagLineRe matches a numbered tag line like "2. Climate Change" or "3. U.S. Women's Rights".
// Tag words are letters, digits, apostrophes, periods and ampersands. A word may be a hyphenated
// compound of up to three parts ("COVID-19"), longer chains are sentences rather than tags.
var tagLineRe = regexp.MustCompile(`^\s*\d+\.\s+(` + tagWord + `(?: +` + tagWord + `)*)\s*$`)

const tagWord = `[\p{L}\p{N}'’.&]+(?:-[\p{L}\p{N}'’.&]+){0,2}`

// markdownStrip drops emphasis and heading marks models wrap around list items
var markdownStrip = strings.NewReplacer("*", "", "_", "", "#", "")

// Truncate limits text to maxWords whitespace-delimited words joined by single spaces.
// Text within the budget, or a non-positive budget, returns text unchanged.
func Truncate(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ")
}

// ParseTags extracts lower-cased tags from a numbered list, one tag per line, in response order.
// Markdown emphasis is removed first, lines not matching "<number>. <tag>" are skipped.
func ParseTags(response string) []string {
	res := []string{}
	for _, line := range strings.Split(response, "\n") {
		m := tagLineRe.FindStringSubmatch(markdownStrip.Replace(line))
		if m == nil {
			continue
		}
		res = append(res, strings.ToLower(m[1]))
	}
	return res
}

// cleanTitle trims whitespace and wrapping quotes models like to add around titles
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Title:")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
}
