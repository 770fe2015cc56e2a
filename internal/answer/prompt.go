package answer

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// systemPrompt frames the assistant's role for every completion.
const systemPrompt = "You are a helpful policy analyst working to understand the UN Biodiversity Beyond National Borders draft agreement."

// passagesTemplate introduces the retrieved passage context.
const passagesTemplate = "Below are some paragraphs to consider from various documents in the UN negotiations process, including drafts of the agreement, news bulletins about the negotiations, and statements by various parties:\n\n%s"

// questionTemplate closes the prompt. The final-draft default matters: the
// corpus holds several drafts of the agreement and unqualified questions
// should be read against the final one.
const questionTemplate = "###\nFrom information in the preceding paragraphs, please try to answer the following question. There are several drafts of the agreement leading up to the final version; please assume the question refers to the final draft unless otherwise specified.\n\nQuestion: %s\n\nAnswer:"

// buildMessages assembles the user-role messages for one completion. The
// role statement is repeated as a user message ahead of the context so
// models that weight system prompts lightly still see it.
func buildMessages(question, passages string) []*ai.Message {
	return []*ai.Message{
		ai.NewUserTextMessage(systemPrompt),
		ai.NewUserTextMessage(fmt.Sprintf(passagesTemplate, passages)),
		ai.NewUserTextMessage(fmt.Sprintf(questionTemplate, question)),
	}
}
