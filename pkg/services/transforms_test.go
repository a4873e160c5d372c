package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

func TestApplyTransform_None(t *testing.T) {
	got, err := ApplyTransform(models.TransformNone, " as typed ")
	require.NoError(t, err)
	assert.Equal(t, " as typed ", got)
}

func TestApplyTransform_EmptyKindMeansNone(t *testing.T) {
	got, err := ApplyTransform("", "raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", got)
}

func TestApplyTransform_Upper(t *testing.T) {
	got, err := ApplyTransform(models.TransformUpper, "  abc-123 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", got)
}

func TestApplyTransform_IdentityDocument(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"71.455.461", "71455461"},
		{" 71455461 ", "71455461"},
		{"dni: 71455461", "dni71455461"},
	}
	for _, tt := range tests {
		got, err := ApplyTransform(models.TransformIdentityDocument, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestApplyTransform_Date(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-01-31", "2024-01-31"},
		{"31/01/2024", "2024-01-31"},
		{"31-01-2024", "2024-01-31"},
	}
	for _, tt := range tests {
		got, err := ApplyTransform(models.TransformDate, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestApplyTransform_BadDate(t *testing.T) {
	_, err := ApplyTransform(models.TransformDate, "next tuesday")
	assert.ErrorIs(t, err, apperrors.ErrMalformedModelOutput)
}

func TestApplyTransform_UnknownKind(t *testing.T) {
	_, err := ApplyTransform("reverse", "value")
	assert.ErrorIs(t, err, apperrors.ErrUnknownTransform)
}

func TestApplyTransforms_DeclarationOrder(t *testing.T) {
	params := []models.ToolParameter{
		{Name: "dni", Type: "string", Transform: models.TransformIdentityDocument},
		{Name: "since", Type: "string", Transform: models.TransformDate},
	}
	args, err := ApplyTransforms(params, map[string]string{
		"since": "31/01/2024",
		"dni":   "71.455.461",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"71455461", "2024-01-31"}, args)
}

func TestApplyTransforms_MissingValueBecomesEmpty(t *testing.T) {
	params := []models.ToolParameter{
		{Name: "dni", Type: "string", Transform: models.TransformNone},
	}
	args, err := ApplyTransforms(params, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, []any{""}, args)
}
