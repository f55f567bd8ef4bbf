package answer

import (
	"fmt"
	"strings"
)

// NormalizeQuery trims q and expands a lone term into a definitional question,
// so "claims" searches as "What does claims mean under this regulation?".
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if fields := strings.Fields(q); len(fields) == 1 {
		return fmt.Sprintf("What does %s mean under this regulation?", q)
	}
	return q
}
