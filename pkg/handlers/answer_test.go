package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

type fakeEngine struct {
	response *models.FinalResponse
	err      error
	gotScope models.TenantScope
}

func (f *fakeEngine) Answer(ctx context.Context, question string, scope models.TenantScope, state models.ConversationState) (*models.FinalResponse, error) {
	f.gotScope = scope
	return f.response, f.err
}

func doRequest(t *testing.T, engine *fakeEngine, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewAnswerHandler(engine, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/v1/answer", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAnswerHandler_OK(t *testing.T) {
	engine := &fakeEngine{response: &models.FinalResponse{
		Answer: "Tu saldo es 100",
		Path:   models.PathDataQuery,
	}}

	rec := doRequest(t, engine, `{
		"tenant_id": 7,
		"context_ids": [5, 9],
		"question": "¿Cuál es mi saldo?",
		"caller_identity_document": "71455461"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.FinalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Tu saldo es 100", got.Answer)
	assert.Equal(t, int64(7), engine.gotScope.TenantID)
	assert.Equal(t, []int64{5, 9}, engine.gotScope.ContextIDs)
	assert.Equal(t, "71455461", engine.gotScope.CallerIdentityDocument)
}

func TestAnswerHandler_BadJSON(t *testing.T) {
	rec := doRequest(t, &fakeEngine{}, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnswerHandler_MissingQuestion(t *testing.T) {
	rec := doRequest(t, &fakeEngine{}, `{"tenant_id": 7, "context_ids": [5]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnswerHandler_NoAuthorizedContexts(t *testing.T) {
	engine := &fakeEngine{err: apperrors.ErrNoAuthorizedContexts}
	rec := doRequest(t, engine, `{"tenant_id": 7, "question": "pregunta"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_authorized_contexts")
}

func TestAnswerHandler_CrossTenant(t *testing.T) {
	engine := &fakeEngine{err: apperrors.ErrContextAccessDenied}
	rec := doRequest(t, engine, `{"tenant_id": 7, "context_ids": [5], "question": "pregunta"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "context_access_denied")
}
