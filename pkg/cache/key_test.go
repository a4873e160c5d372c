package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeKey_Deterministic(t *testing.T) {
	k1 := MakeKey(42, []int64{1, 2, 3}, "¿Cuál es mi saldo?")
	k2 := MakeKey(42, []int64{1, 2, 3}, "¿Cuál es mi saldo?")
	assert.Equal(t, k1, k2)
}

func TestMakeKey_ContextOrderIrrelevant(t *testing.T) {
	k1 := MakeKey(42, []int64{3, 1, 2}, "question")
	k2 := MakeKey(42, []int64{1, 2, 3}, "question")
	k3 := MakeKey(42, []int64{2, 3, 1, 1, 2}, "question")
	assert.Equal(t, k1, k2)
	assert.Equal(t, k1, k3, "duplicate ids must not change the key")
}

func TestMakeKey_QuestionNormalization(t *testing.T) {
	k1 := MakeKey(42, []int64{1}, "  ¿Cuál ES mi Saldo?  ")
	k2 := MakeKey(42, []int64{1}, "¿cuál es mi saldo?")
	assert.Equal(t, k1, k2)
}

func TestMakeKey_TenantsDisjoint(t *testing.T) {
	k1 := MakeKey(1, []int64{1, 2}, "question")
	k2 := MakeKey(2, []int64{1, 2}, "question")
	assert.NotEqual(t, k1, k2)
}

func TestMakeKey_ScopeDisjoint(t *testing.T) {
	k1 := MakeKey(1, []int64{1, 2}, "question")
	k2 := MakeKey(1, []int64{1, 2, 3}, "question")
	assert.NotEqual(t, k1, k2, "wider permission scope must produce a different key")
}

func TestMakeKey_VersionedNamespace(t *testing.T) {
	key := MakeKey(1, []int64{1}, "question")
	assert.True(t, strings.HasPrefix(key, "ak:v1:"), "key %q missing namespace prefix", key)
}

func TestMakeKey_NoRawQuestionLeaks(t *testing.T) {
	key := MakeKey(1, []int64{1}, "secret balance question")
	assert.NotContains(t, key, "secret")
}
