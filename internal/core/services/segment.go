package services

import (
	"regexp"
	"strings"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// Synthetic titles for records that carry content without a detected heading.
const (
	introTitle    = "Intro"
	fallbackTitle = "본문"
)

// headingRule matches one chapter-marker convention at the start of a
// trimmed line. Rules are independent so that a new marker convention is
// added by appending a rule, not by editing a shared pattern.
type headingRule struct {
	name string
	re   *regexp.Regexp
}

// headingRules is the ordered rule list; on a line matching several
// conventions the first-listed rule wins.
var headingRules = []headingRule{
	{name: "hash", re: regexp.MustCompile(`^#\s*\d+\.?`)},                // #12, #12.
	{name: "episode", re: regexp.MustCompile(`^<?\s*\d+\s*화\s*>?`)},      // 1화, < 1화 >
	{name: "section", re: regexp.MustCompile(`^제\s*\d+\s*[장편]`)},        // 제1장, 제2편
	{name: "chapter", re: regexp.MustCompile(`(?i)^chapter\b(?:\s*\d+)?`)}, // Chapter 1; the boundary keeps "Chapters..." prose out
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// matchHeading reports whether line is a chapter heading and returns the
// normalized title: the whole trimmed line with angle-bracket decoration
// stripped. Chapter titles receive no further sanitization; they are short
// structural markers, not noisy filename stems.
func matchHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	for _, rule := range headingRules {
		if rule.re.MatchString(trimmed) {
			return strings.TrimSpace(angleBrackets.Replace(trimmed)), true
		}
	}
	return "", false
}

// SplitChapters partitions decoded text into ordered (title, content)
// records. Content preceding the first heading becomes a synthetic "Intro"
// record when non-empty; content between headings belongs to the record
// opened by the previous heading; trailing content belongs to the last
// record. When no heading matches anywhere the entire text becomes a
// single "본문" record. SplitChapters never returns an empty slice.
func SplitChapters(text string) []domain.Chapter {
	var (
		chapters []domain.Chapter
		buf      []string
	)

	flush := func() string {
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		return content
	}

	for _, line := range strings.Split(text, "\n") {
		title, ok := matchHeading(line)
		if !ok {
			buf = append(buf, line)
			continue
		}

		content := flush()
		if len(chapters) == 0 {
			if content != "" {
				chapters = append(chapters, domain.Chapter{Title: introTitle, Content: content})
			}
		} else {
			chapters[len(chapters)-1].Content = content
		}
		chapters = append(chapters, domain.Chapter{Title: title})
	}

	tail := flush()
	if len(chapters) == 0 {
		return []domain.Chapter{{Title: fallbackTitle, Content: tail}}
	}
	chapters[len(chapters)-1].Content = tail
	return chapters
}
