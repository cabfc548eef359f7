package format1

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Item rows end at the first summary line.
var (
	stopKeywords = ahocorasick.NewStringMatcher([]string{"total", "notes", "fob"})
	stopPattern  = regexp.MustCompile(`(?i)\b(Sub\s*Total|Total|Notes|FOB)`)
)

func isStopLine(line string) bool {
	if !stopKeywords.Contains([]byte(strings.ToLower(line))) {
		return false
	}
	return stopPattern.MatchString(line)
}

// ExtractItems parses item lines in order until the first summary line.
func ExtractItems(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isStopLine(line) {
			break
		}
		if it := ParseLine(line); it != nil {
			items = append(items, *it)
		}
	}
	return items
}
