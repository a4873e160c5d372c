package vector

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/llm"
	"github.com/conversia-ai/answer-engine/pkg/testhelpers"
)

func TestNewPgVectorIndex_TableNameValidation(t *testing.T) {
	embedder := llm.NewMockLanguageModel()

	for _, name := range []string{"engine_document_chunks", "chunks", "t2"} {
		_, err := NewPgVectorIndex(nil, embedder, name, zap.NewNop())
		assert.NoError(t, err, "table %q must be accepted", name)
	}

	for _, name := range []string{"", "Chunks", "chunks; drop table x", "1table", `a"b`} {
		_, err := NewPgVectorIndex(nil, embedder, name, zap.NewNop())
		assert.Error(t, err, "table %q must be rejected", name)
	}
}

// flatEmbedding is a constant 1536-dim vector so every chunk and every query
// land at the same distance; only the context filter decides what returns.
func flatEmbedding() []float32 {
	vec := make([]float32, 1536)
	vec[0] = 1
	return vec
}

func insertChunk(t *testing.T, db *testhelpers.TestDB, contextID int64, content, filename string) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO engine_document_chunks (context_id, content, source_filename, source_type, embedding)
		VALUES ($1, $2, $3, 'pdf', $4)`,
		contextID, content, filename, pgvector.NewVector(flatEmbedding()))
	require.NoError(t, err)
}

func TestSimilaritySearch_FiltersByContextID(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	ctx := context.Background()

	const tenantID = int64(8101)
	var ctxA, ctxB int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO engine_contexts (tenant_id, name, type)
		VALUES ($1, 'politicas', 'DOCUMENTAL') RETURNING id`, tenantID).Scan(&ctxA)
	require.NoError(t, err)
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO engine_contexts (tenant_id, name, type)
		VALUES ($1, 'contratos', 'DOCUMENTAL') RETURNING id`, tenantID).Scan(&ctxB)
	require.NoError(t, err)

	insertChunk(t, db, ctxA, "horario de atención de lunes a viernes", "politicas.pdf")
	insertChunk(t, db, ctxA, "política de devoluciones en 30 días", "politicas.pdf")
	insertChunk(t, db, ctxB, "cláusula de renovación automática", "contrato.pdf")

	embedder := llm.NewMockLanguageModel()
	embedder.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
		return flatEmbedding(), nil
	}

	index, err := NewPgVectorIndex(db.Pool, embedder, "engine_document_chunks", zap.NewNop())
	require.NoError(t, err)

	chunks, err := index.SimilaritySearch(ctx, "¿cuál es el horario?", []int64{ctxA}, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.Equal(t, ctxA, chunk.Metadata.ContextID)
		assert.Equal(t, "politicas.pdf", chunk.Metadata.SourceFilename)
	}

	chunks, err = index.SimilaritySearch(ctx, "¿cuál es el horario?", []int64{ctxB}, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "cláusula de renovación automática", chunks[0].Content)
}

func TestSimilaritySearch_EmptyScopeShortCircuits(t *testing.T) {
	db := testhelpers.GetTestDB(t)

	embedder := llm.NewMockLanguageModel()
	index, err := NewPgVectorIndex(db.Pool, embedder, "engine_document_chunks", zap.NewNop())
	require.NoError(t, err)

	chunks, err := index.SimilaritySearch(context.Background(), "saldo", nil, 10)
	require.NoError(t, err)
	assert.Nil(t, chunks)
	assert.Zero(t, embedder.CreateEmbeddingCalls, "empty scope must not reach the embedder")
}
