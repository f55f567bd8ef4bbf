package answer

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/regask/internal/domain"
)

func TestFormatBullets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			"mixed markers",
			"- First point\n* Second\n\n•  Third  ",
			[]string{"First point", "Second", "Third"},
		},
		{"plain lines", "One.\nTwo.", []string{"One.", "Two."}},
		{"nested markers", "  - * • Deep", []string{"Deep"}},
		{"inner dashes kept", "- Pay within 30-45 days - always", []string{"Pay within 30-45 days - always"}},
		{"crlf", "- A\r\n- B\r\n", []string{"A", "B"}},
		{"marker only lines dropped", "-\n*\n•\n- real", []string{"real"}},
		{"non-breaking space prefix", "\u00a0- Spaced", []string{"Spaced"}},
		{"empty", "", []string{domain.FallbackAnswer}},
		{"whitespace only", " \n\t\n  ", []string{domain.FallbackAnswer}},
		{"markers only", "- \n * \n•", []string{domain.FallbackAnswer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBullets(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatBullets(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatBullets_NoEmptyEntries(t *testing.T) {
	for _, b := range FormatBullets("a\n\n\n-\nb\n   \n") {
		if b == "" {
			t.Fatal("empty bullet in output")
		}
	}
}
