package prompts

import (
	"fmt"
	"strings"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

// NoSQLSentinel is the fixed token the model must emit when the question
// cannot be answered from the provided schema.
const NoSQLSentinel = "NO_SQL_POSSIBLE"

// BuildSQLGenerationPrompt asks the model for exactly one bounded SELECT
// against the described schema, or the sentinel.
func BuildSQLGenerationPrompt(question string, history []models.ChatMessage, schemaDDL string, dialect models.Dialect, defaultLimit int) string {
	var prompt strings.Builder

	prompt.WriteString("# SQL Generation\n\n")
	prompt.WriteString(fmt.Sprintf("Write one %s SELECT statement that answers the user's question using ONLY the tables below.\n\n", dialectName(dialect)))

	prompt.WriteString("## Schema\n\n```sql\n")
	prompt.WriteString(schemaDDL)
	prompt.WriteString("\n```\n\n")

	writeHistory(&prompt, history)

	prompt.WriteString("## Question\n\n")
	prompt.WriteString(question)
	prompt.WriteString("\n\n## Rules\n\n")
	prompt.WriteString("- Exactly one SELECT statement, no other statement types.\n")
	prompt.WriteString(fmt.Sprintf("- Always include a LIMIT clause; use LIMIT %d unless the question implies fewer rows.\n", defaultLimit))
	prompt.WriteString("- Use only tables and columns from the schema above.\n")
	prompt.WriteString(fmt.Sprintf("- If the schema cannot answer the question, respond with the exact token %s.\n", NoSQLSentinel))
	prompt.WriteString("- Respond with the SQL text only, no explanation and no markdown fences.\n")

	return prompt.String()
}

// SQLGenerationSystemMessage is the system message for SQL generation calls.
const SQLGenerationSystemMessage = "You translate natural language questions into single read-only SQL SELECT statements. " +
	"You respond only with SQL or the sentinel token, nothing else."

func dialectName(dialect models.Dialect) string {
	switch dialect {
	case models.DialectMSSQL:
		return "SQL Server"
	default:
		return "PostgreSQL"
	}
}
