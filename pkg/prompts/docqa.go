package prompts

import (
	"fmt"
	"strings"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// BuildDocumentAnswerPrompt asks the model to answer only from the
// retrieved chunks, with an explicit refusal when they are insufficient.
func BuildDocumentAnswerPrompt(question string, chunks []models.DocumentChunk) string {
	var prompt strings.Builder

	prompt.WriteString("# Grounded Answer\n\n")
	prompt.WriteString("Answer the user's question using ONLY the context fragments below.\n\n")

	prompt.WriteString("## Context Fragments\n\n")
	if len(chunks) == 0 {
		prompt.WriteString("(no fragments were retrieved)\n\n")
	}
	for i, chunk := range chunks {
		prompt.WriteString(fmt.Sprintf("### Fragment %d (source: %s)\n%s\n\n",
			i+1, chunk.Metadata.SourceFilename, chunk.Content))
	}

	prompt.WriteString("## Question\n\n")
	prompt.WriteString(question)
	prompt.WriteString("\n\n## Rules\n\n")
	prompt.WriteString("- Use only the fragments above; never use outside knowledge.\n")
	prompt.WriteString("- If the fragments do not contain the answer, say explicitly that the available information is not sufficient to answer.\n")
	prompt.WriteString("- Answer in the language of the question.\n")

	return prompt.String()
}

// DocumentAnswerSystemMessage is the system message for grounded answers.
const DocumentAnswerSystemMessage = "You are a careful assistant that answers strictly from provided context. " +
	"When the context is insufficient you say so instead of guessing."
