package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildResultSummaryPrompt asks the model to phrase query results as a
// natural-language answer. Only a capped preview of rows is included.
func BuildResultSummaryPrompt(question string, rows []map[string]any, rowPreview int) string {
	var prompt strings.Builder

	prompt.WriteString("# Result Summary\n\n")
	prompt.WriteString("Phrase the database result below as a direct answer to the user's question.\n\n")

	prompt.WriteString("## Question\n\n")
	prompt.WriteString(question)
	prompt.WriteString("\n\n## Result Rows\n\n")

	if len(rows) == 0 {
		prompt.WriteString("(the query returned no rows)\n")
	} else {
		preview := rows
		truncated := false
		if rowPreview > 0 && len(rows) > rowPreview {
			preview = rows[:rowPreview]
			truncated = true
		}
		for _, row := range preview {
			line, err := json.Marshal(row)
			if err != nil {
				continue
			}
			prompt.Write(line)
			prompt.WriteString("\n")
		}
		if truncated {
			prompt.WriteString(fmt.Sprintf("(showing %d of %d rows)\n", rowPreview, len(rows)))
		}
	}

	prompt.WriteString("\n## Rules\n\n")
	prompt.WriteString("- State only what the rows show; never invent figures.\n")
	prompt.WriteString("- If there are no rows, say explicitly that no data was found.\n")
	prompt.WriteString("- Answer in the language of the question.\n")

	return prompt.String()
}

// ResultSummarySystemMessage is the system message for result summaries.
const ResultSummarySystemMessage = "You summarize database query results for end users. " +
	"You state only what the data shows."
