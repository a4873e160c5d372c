// Package sql provides the safety gate for model-generated SQL.
// Nothing reaches a target database without passing Validate.
package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyStatement indicates there was no SQL to validate.
	ErrEmptyStatement = errors.New("empty SQL statement")

	// ErrMultipleStatements indicates the query contains multiple SQL
	// statements; only single statements are permitted.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed")

	// ErrNotSelect indicates the statement is not a plain SELECT (or a
	// read-only WITH ... SELECT).
	ErrNotSelect = errors.New("only SELECT statements are allowed")
)

// ForbiddenKeywordError reports a data-mutation or DDL keyword found
// anywhere in the statement, including nested in subqueries or CTEs.
type ForbiddenKeywordError struct {
	Keyword string
}

func (e *ForbiddenKeywordError) Error() string {
	return fmt.Sprintf("forbidden keyword %s in generated SQL", e.Keyword)
}

// forbiddenKeywords are rejected wherever they appear outside string
// literals. SELECT-only means none of these, even nested.
var forbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE", "TRUNCATE",
	"GRANT", "REVOKE", "MERGE", "CALL", "EXEC", "EXECUTE", "COPY",
	"VACUUM", "ATTACH", "SET",
}

// limitClausePattern matches a trailing LIMIT clause (optionally with OFFSET).
var limitClausePattern = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)(\s+OFFSET\s+\d+)?\s*$`)

// ValidatedStatement is the output of the validation gate: a single bounded
// SELECT safe to hand to an executor.
type ValidatedStatement struct {
	Text  string
	Limit int
}

// Validate checks a model-generated statement against the full safety
// contract and returns a bounded statement, or an error that must abort
// execution.
//
// Guarantees on success:
//   - exactly one statement (no semicolons outside string literals)
//   - SELECT-only, no mutation or DDL keywords anywhere, even nested
//   - a LIMIT clause present, with LIMIT <= maxLimit
//
// A missing LIMIT is repaired by appending defaultLimit; an oversized LIMIT
// is rewritten down to maxLimit. Anything else fails hard.
func Validate(sqlQuery string, defaultLimit, maxLimit int) (ValidatedStatement, error) {
	normalized := stripTrailingSemicolon(strings.TrimSpace(sqlQuery))
	if normalized == "" {
		return ValidatedStatement{}, ErrEmptyStatement
	}

	if hasSemicolonOutsideStrings(normalized) {
		return ValidatedStatement{}, ErrMultipleStatements
	}

	if !isSelectStatement(normalized) {
		return ValidatedStatement{}, ErrNotSelect
	}

	if kw := findForbiddenKeyword(normalized); kw != "" {
		return ValidatedStatement{}, &ForbiddenKeywordError{Keyword: kw}
	}

	return enforceLimit(normalized, defaultLimit, maxLimit)
}

// isSelectStatement accepts SELECT and WITH-prefixed statements. Modifying
// CTEs are caught by the keyword scan, so WITH is safe to admit here.
func isSelectStatement(sqlQuery string) bool {
	upper := strings.ToUpper(sqlQuery)
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}

// findForbiddenKeyword scans the statement with string literals blanked and
// returns the first forbidden keyword found as a whole word, or "".
func findForbiddenKeyword(sqlQuery string) string {
	scrubbed := blankStringLiterals(strings.ToUpper(sqlQuery))
	for _, kw := range forbiddenKeywords {
		if containsWord(scrubbed, kw) {
			return kw
		}
	}
	return ""
}

// containsWord reports whether s contains w bounded by non-identifier
// characters on both sides.
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		i += idx

		beforeOK := i == 0 || !isIdentChar(s[i-1])
		afterIdx := i + len(w)
		afterOK := afterIdx >= len(s) || !isIdentChar(s[afterIdx])
		if beforeOK && afterOK {
			return true
		}
		idx = i + len(w)
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// enforceLimit guarantees a LIMIT clause bounded by maxLimit.
func enforceLimit(sqlQuery string, defaultLimit, maxLimit int) (ValidatedStatement, error) {
	match := limitClausePattern.FindStringSubmatch(sqlQuery)
	if match == nil {
		return ValidatedStatement{
			Text:  fmt.Sprintf("%s LIMIT %d", sqlQuery, defaultLimit),
			Limit: defaultLimit,
		}, nil
	}

	limit, err := strconv.Atoi(match[1])
	if err != nil || limit <= 0 {
		// Unparseable or zero limit: rewrite to the default.
		rewritten := limitClausePattern.ReplaceAllString(sqlQuery, fmt.Sprintf("LIMIT %d", defaultLimit))
		return ValidatedStatement{Text: rewritten, Limit: defaultLimit}, nil
	}

	if limit > maxLimit {
		rewritten := limitClausePattern.ReplaceAllString(sqlQuery, fmt.Sprintf("LIMIT %d", maxLimit))
		return ValidatedStatement{Text: rewritten, Limit: maxLimit}, nil
	}

	return ValidatedStatement{Text: sqlQuery, Limit: limit}, nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('').
			// A doubled quote exits and immediately re-enters, which keeps
			// the scan correct.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// blankStringLiterals replaces the contents of string literals with spaces
// so keyword scans cannot be fooled by quoted text.
func blankStringLiterals(sqlQuery string) string {
	out := []byte(sqlQuery)
	inSingle := false
	inDouble := false
	var prev byte

	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case inSingle:
			if c == '\'' && prev != '\\' {
				inSingle = false
			} else {
				out[i] = ' '
			}
		case inDouble:
			if c == '"' && prev != '\\' {
				inDouble = false
			} else {
				out[i] = ' '
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		}
		prev = c
	}

	return string(out)
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimRight(strings.TrimSuffix(sqlQuery, ";"), " \t\n\r")
	}
	return sqlQuery
}
