package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conversia-ai/answer-engine/pkg/models"
)

func TestBuildToolSelectionPrompt(t *testing.T) {
	tools := []models.ToolDefinition{{
		Name:        "fn_get_balance",
		Description: "Devuelve el saldo actual del cliente",
		Parameters: []models.ToolParameter{
			{Name: "dni", Type: "text", Transform: models.TransformIdentityDocument},
		},
	}}
	history := []models.ChatMessage{
		{Role: "user", Content: "hola"},
		{Role: "assistant", Content: "¿En qué puedo ayudarte?"},
	}

	prompt := BuildToolSelectionPrompt("¿Cuál es mi saldo?", history, tools, "71455461")

	assert.Contains(t, prompt, "fn_get_balance")
	assert.Contains(t, prompt, "dni")
	assert.Contains(t, prompt, "¿Cuál es mi saldo?")
	assert.Contains(t, prompt, "71455461", "caller identity must be available for parameter filling")
	assert.Contains(t, prompt, NoToolSentinel)
	assert.Contains(t, prompt, "hola")
}

func TestBuildSQLGenerationPrompt(t *testing.T) {
	prompt := BuildSQLGenerationPrompt("ventas de enero", nil,
		"CREATE TABLE ventas (id bigint, fecha date);", models.DialectPostgres, 100)

	assert.Contains(t, prompt, "CREATE TABLE ventas")
	assert.Contains(t, prompt, "ventas de enero")
	assert.Contains(t, prompt, NoSQLSentinel)
	assert.Contains(t, prompt, "PostgreSQL")
	assert.Contains(t, prompt, "LIMIT")
}

func TestBuildSQLGenerationPrompt_MSSQLDialect(t *testing.T) {
	prompt := BuildSQLGenerationPrompt("pregunta", nil, "ddl", models.DialectMSSQL, 100)
	assert.Contains(t, prompt, "SQL Server")
}

func TestBuildDocumentAnswerPrompt(t *testing.T) {
	chunks := []models.DocumentChunk{
		{Content: "El horario es de 9 a 18.", Metadata: models.ChunkMetadata{SourceFilename: "horarios.pdf"}},
	}
	prompt := BuildDocumentAnswerPrompt("¿Cuál es el horario?", chunks)

	assert.Contains(t, prompt, "El horario es de 9 a 18.")
	assert.Contains(t, prompt, "¿Cuál es el horario?")
}

func TestBuildDocumentAnswerPrompt_NoChunks(t *testing.T) {
	prompt := BuildDocumentAnswerPrompt("pregunta", nil)
	assert.Contains(t, prompt, "pregunta")
}

func TestBuildResultSummaryPrompt_TruncatesPreview(t *testing.T) {
	rows := make([]map[string]any, 25)
	for i := range rows {
		rows[i] = map[string]any{"n": i}
	}
	prompt := BuildResultSummaryPrompt("pregunta", rows, 10)

	assert.Contains(t, prompt, "25")
	assert.Contains(t, prompt, `{"n":9}`)
	assert.NotContains(t, prompt, `{"n":24}`, "rows beyond the preview cap must not appear")
}
