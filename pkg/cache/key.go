// Package cache implements the tenant-scoped answer cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// keySchemeVersion namespaces derived keys so a future change to the
// derivation scheme cannot collide with keys written by this one.
const keySchemeVersion = "ak:v1"

// MakeKey derives a deterministic, tenant-and-permission-scoped cache key.
//
// Context ids are deduplicated and sorted ascending so every permutation of
// the same authorized set collapses to one key. The question is lower-cased
// and trimmed; internal whitespace and punctuation are intentionally NOT
// normalized further (documented limitation: "saldo?" and "saldo ?" miss).
//
// Pure function: identical logical input yields identical output across
// process restarts.
func MakeKey(tenantID int64, contextIDs []int64, question string) string {
	ids := normalizeContextIDs(contextIDs)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	normalizedQuestion := strings.ToLower(strings.TrimSpace(question))

	material := fmt.Sprintf("%d:%s:%s", tenantID, strings.Join(parts, ","), normalizedQuestion)
	digest := sha256.Sum256([]byte(material))

	return keySchemeVersion + ":" + hex.EncodeToString(digest[:])
}

// normalizeContextIDs deduplicates and sorts ids ascending.
func normalizeContextIDs(contextIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(contextIDs))
	ids := make([]int64, 0, len(contextIDs))
	for _, id := range contextIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
