package domain

import "strings"

// FallbackAnswer is returned when the context does not answer the question.
const FallbackAnswer = "The document does not clearly say this."

const promptTemplate = `You are explaining Indian insurance regulations to a common person.

Rules:
- Use very simple English.
- Use short sentences.
- Do not use legal words.
- Convert into bullet points.
- Only use information from the context.
- If answer is not clearly available, say:
  "` + FallbackAnswer + `"

Question:
{question}

Context:
{context}
`

// RewritePrompt renders the plain-language rewriting prompt. Every rewriter
// driver sends exactly this text so answers do not depend on the backend.
func RewritePrompt(question, context string) string {
	r := strings.NewReplacer("{question}", question, "{context}", context)
	return r.Replace(promptTemplate)
}
