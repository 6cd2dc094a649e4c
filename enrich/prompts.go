package enrich

import "fmt"

// titlePrompt asks for a document title from a representative prefix of
// the document. The strictness is deliberate; cleaning handles the
// models that ignore it anyway.
func titlePrompt(context string) string {
	return fmt.Sprintf(`Give a concise title for the document excerpt below.
Respond with only the title on a single line. No explanation, no quotes, no "Title:" prefix.

Excerpt:
%s`, context)
}

// keywordsPrompt asks for exactly count comma-separated keywords.
func keywordsPrompt(context string, count int) string {
	return fmt.Sprintf(`List the %d most important keywords of the text below.
Respond with only the keywords, comma-separated, on a single line. No explanation, no "Keywords:" prefix.

Text:
%s`, count, context)
}

// questionsPrompt asks for exactly count questions the text can answer.
func questionsPrompt(context string, count int) string {
	return fmt.Sprintf(`Write %d questions that the text below can answer.
Respond with only the questions, one per line. No explanation, no numbering.

Text:
%s`, count, context)
}
