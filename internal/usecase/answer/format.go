package answer

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/regask/internal/domain"
)

func isBulletPrefix(r rune) bool {
	return r == '-' || r == '*' || r == '•' || unicode.IsSpace(r)
}

// FormatBullets splits raw rewriter output into clean bullet texts.
// Lines are trimmed, leading runs of "-", "*", "•" and whitespace removed, and
// empty lines dropped. No surviving line yields the fallback answer.
func FormatBullets(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimLeftFunc(strings.TrimSpace(line), isBulletPrefix)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return []string{domain.FallbackAnswer}
	}
	return out
}
