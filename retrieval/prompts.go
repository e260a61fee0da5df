package retrieval

import "fmt"

// InsufficientContext is the sentinel the answer prompt instructs the model
// to return when the retrieved passages cannot answer the question.
const InsufficientContext = "I don't have enough information to answer that."

const summarizePrompt = `Condense the following passage to the facts relevant for answering the
question. Keep it under four sentences and drop boilerplate.

Question: %s

Passage:
%s

Condensed passage:`

const answerPrompt = `Answer the question using ONLY the context below. If the context does not
contain the answer, reply exactly: %q

Context:
%s

Question: %s

Answer:`

const hintPrompt = `You are a thoughtful and patient tutor. Provide only hints, never direct
answers. Use these excerpts from the user's personal knowledge base:

%s

Question: %s

Hint (not a full answer, just a gentle nudge):`

func renderSummarizePrompt(question, passage string) string {
	return fmt.Sprintf(summarizePrompt, question, passage)
}

func renderAnswerPrompt(context, question string) string {
	return fmt.Sprintf(answerPrompt, InsufficientContext, context, question)
}

// RenderHintPrompt builds the tutoring variant of the answer prompt.
func RenderHintPrompt(context, question string) string {
	return fmt.Sprintf(hintPrompt, context, question)
}
