// Package wikitext turns registries into wiki markup and gives the publisher
// a minimal section model for in-place page edits.
package wikitext

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(={2,6})\s*(.*?)\s*(={2,6})\s*$`)

// Section is one heading-delimited slice of a page. Heading keeps the raw
// heading line so reassembly never reformats what humans wrote.
type Section struct {
	Heading string // raw heading line, empty for the preamble
	Title   string // trimmed title text, empty for the preamble
	Content string // body text below the heading, up to the next heading
}

// Page is a wiki page split into its preamble and sections.
type Page struct {
	Sections []*Section
}

// ParsePage splits page text on heading lines (== Title == and deeper).
// Everything before the first heading lands in a preamble section with an
// empty title.
func ParsePage(text string) *Page {
	lines := strings.Split(text, "\n")
	page := &Page{}
	cur := &Section{}
	var body []string

	flush := func() {
		cur.Content = strings.Join(body, "\n")
		if cur.Content != "" || cur.Heading != "" {
			page.Sections = append(page.Sections, cur)
		}
		body = nil
	}

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil && len(m[1]) == len(m[3]) {
			flush()
			cur = &Section{Heading: line, Title: m[2]}
			continue
		}
		body = append(body, line)
	}
	flush()
	return page
}

// String reassembles the page: raw heading lines followed by their content.
func (p *Page) String() string {
	var parts []string
	for _, s := range p.Sections {
		if s.Heading != "" {
			parts = append(parts, s.Heading)
		}
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n")
}

// TitleCase uppercases the first letter of every alphabetic run and lowercases
// the rest, so "new_york" becomes "New_York".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case isLetter && !prevLetter:
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
		case isLetter:
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}
