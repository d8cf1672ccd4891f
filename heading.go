package stylemanual

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	headingLine = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	codeFence   = regexp.MustCompile("(?s)```.*?```")
)

// Heading is one entry in the outline of a rendered markdown page.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractHeadings returns the ATX headings of markdown in order, ignoring
// fenced code. Anchors are URL-safe and repeated anchors get numeric suffixes.
func ExtractHeadings(markdown string) []Heading {
	if markdown == "" {
		return nil
	}

	found := headingLine.FindAllStringSubmatch(codeFence.ReplaceAllString(markdown, ""), -1)
	if len(found) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(found))
	counts := make(map[string]int)
	for _, m := range found {
		title := strings.TrimSpace(m[2])
		base := Anchor(title)

		anchor := base
		if n, ok := counts[base]; ok {
			anchor = base + "-" + strconv.Itoa(n)
		}
		counts[base]++

		headings = append(headings, Heading{
			Level:  len(m[1]),
			Title:  title,
			Anchor: anchor,
		})
	}

	return headings
}

// Anchor lower-cases title, turns spaces and hyphens into single hyphens and
// drops everything that is not a letter or digit.
func Anchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
