package passage

import "strings"

// ContextSeparator joins passage texts into the rewriting context.
const ContextSeparator = "\n\n"

// Deduplicate drops every passage whose text was already seen, keeping first
// occurrences in their original order. Comparison is byte-exact.
func Deduplicate(passages []Passage) []Passage {
	seen := make(map[string]struct{}, len(passages))
	out := make([]Passage, 0, len(passages))
	for _, p := range passages {
		if _, ok := seen[p.text]; ok {
			continue
		}
		seen[p.text] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Texts returns passage texts in order.
func Texts(passages []Passage) []string {
	out := make([]string, len(passages))
	for i, p := range passages {
		out[i] = p.text
	}
	return out
}

// JoinTexts renders passages as a single context block.
func JoinTexts(passages []Passage) string {
	return strings.Join(Texts(passages), ContextSeparator)
}
