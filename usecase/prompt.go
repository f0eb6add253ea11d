package usecase

import (
	"fmt"
	"strings"

	"github.com/ngophulan456hn/alice-assignment/domains/chat"
	"github.com/ngophulan456hn/alice-assignment/domains/session"
)

// historyWindow is the number of most recent turns included in the prompt.
// Older turns stay in storage but are never sent to the model.
const historyWindow = 10

const documentPreamble = `You are a helpful assistant. You have access to the following document that the user uploaded:

--- DOCUMENT: %s ---
%s
--- END DOCUMENT ---

Use this document to answer questions when relevant. If the question is not related to the document, you can still answer it.`

const genericPreamble = "You are a helpful assistant."

// BuildPrompt assembles the model-ready prompt from the session's document
// context, the bounded history window and the new user message. Pure and
// deterministic; identical inputs always produce a byte-identical prompt.
//
// Section order is fixed: preamble, optional history block, new message,
// Assistant cue, joined by newlines.
func BuildPrompt(docContext *session.Context, history []chat.Turn, message string) string {
	var parts []string

	if docContext != nil {
		parts = append(parts, fmt.Sprintf(documentPreamble, docContext.Filename, docContext.Text))
	} else {
		parts = append(parts, genericPreamble)
	}

	if len(history) > 0 {
		parts = append(parts, "\nConversation history:")
		window := history
		if len(window) > historyWindow {
			window = window[len(window)-historyWindow:]
		}
		for _, turn := range window {
			role := "Assistant"
			if turn.Role == chat.RoleUser {
				role = "User"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", role, turn.Content))
		}
	}

	parts = append(parts, fmt.Sprintf("\nUser: %s", message))
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}
