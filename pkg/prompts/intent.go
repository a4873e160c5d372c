// Package prompts builds the prompt text for every model call the engine
// makes. Keeping prompt construction in one place makes the contracts
// (sentinels, JSON shapes) testable without a model.
package prompts

import (
	"fmt"
	"strings"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// NoToolSentinel is the fixed token the model must emit when no registered
// tool applies to the question. Anything that is not valid tool JSON is
// treated the same way.
const NoToolSentinel = "NO_TOOL"

// BuildToolSelectionPrompt asks the model to pick at most one tool and
// extract its parameters, or emit the sentinel.
func BuildToolSelectionPrompt(question string, history []models.ChatMessage, tools []models.ToolDefinition, callerIdentityDocument string) string {
	var prompt strings.Builder

	prompt.WriteString("# Tool Selection\n\n")
	prompt.WriteString("Decide whether exactly one of the registered tools answers the user's question.\n\n")

	prompt.WriteString("## Registered Tools\n\n")
	for _, tool := range tools {
		prompt.WriteString(fmt.Sprintf("### %s\n%s\n", tool.Name, tool.Description))
		if len(tool.Parameters) > 0 {
			prompt.WriteString("Required parameters:\n")
			for _, p := range tool.Parameters {
				prompt.WriteString(fmt.Sprintf("- %s (%s)\n", p.Name, p.Type))
			}
		}
		prompt.WriteString("\n")
	}

	if callerIdentityDocument != "" {
		prompt.WriteString("## Caller Identity\n\n")
		prompt.WriteString(fmt.Sprintf("The caller's identity document number is %s. ", callerIdentityDocument))
		prompt.WriteString("Use it as the default value for identity-document parameters when the question is about the caller themselves.\n\n")
	}

	writeHistory(&prompt, history)

	prompt.WriteString("## Question\n\n")
	prompt.WriteString(question)
	prompt.WriteString("\n\n## Response Format\n\n")
	prompt.WriteString("Respond with ONLY one of:\n")
	prompt.WriteString("1. A JSON object: {\"tool\": \"<tool name>\", \"parameters\": {\"<param>\": \"<value>\"}}\n")
	prompt.WriteString(fmt.Sprintf("2. The exact token %s if no tool applies.\n", NoToolSentinel))
	prompt.WriteString("Never invent parameter values that are not in the question or caller identity.\n")

	return prompt.String()
}

// ToolSelectionSystemMessage is the system message for tool selection calls.
const ToolSelectionSystemMessage = "You select database tools for a customer support assistant. " +
	"You respond only with the requested JSON or sentinel token, nothing else."

func writeHistory(prompt *strings.Builder, history []models.ChatMessage) {
	if len(history) == 0 {
		return
	}
	prompt.WriteString("## Conversation So Far\n\n")
	for _, msg := range history {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	prompt.WriteString("\n")
}
