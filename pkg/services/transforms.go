package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/conversia-ai/answer-engine/pkg/apperrors"
	"github.com/conversia-ai/answer-engine/pkg/models"
)

var identityDocumentPattern = regexp.MustCompile(`[^0-9A-Za-z]`)

// acceptedDateLayouts are tried in order when normalizing date parameters.
// The first layout that parses wins.
var acceptedDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	time.RFC3339,
}

// ApplyTransform normalizes a raw parameter value according to the
// transform declared on the tool parameter. Values always round-trip as
// strings; the datasource adapter handles driver-level typing.
func ApplyTransform(kind models.TransformKind, value string) (string, error) {
	switch kind {
	case models.TransformNone, "":
		return value, nil
	case models.TransformUpper:
		return strings.ToUpper(strings.TrimSpace(value)), nil
	case models.TransformIdentityDocument:
		return identityDocumentPattern.ReplaceAllString(value, ""), nil
	case models.TransformDate:
		trimmed := strings.TrimSpace(value)
		for _, layout := range acceptedDateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("value %q is not a recognized date: %w", value, apperrors.ErrMalformedModelOutput)
	default:
		return "", fmt.Errorf("transform %q: %w", kind, apperrors.ErrUnknownTransform)
	}
}

// ApplyTransforms normalizes every parameter the tool declares, in
// declaration order, producing the positional argument list for the
// routine call. Parameters the model did not supply become empty strings
// so routine arity stays stable.
func ApplyTransforms(params []models.ToolParameter, values map[string]string) ([]any, error) {
	args := make([]any, 0, len(params))
	for _, p := range params {
		transformed, err := ApplyTransform(p.Transform, values[p.Name])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		args = append(args, transformed)
	}
	return args, nil
}
