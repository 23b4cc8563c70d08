package agent

import "strings"

// retrievalKeywords gate the RAG lookup: only questions touching Bitcoin
// subject matter hit the vector index, everything else skips the embedding
// round-trip entirely.
var retrievalKeywords = []string{"bitcoin", "btc", "whitepaper", "blockchain"}

// shouldRetrieve reports whether the input warrants a knowledge-base lookup.
// Matching is a case-insensitive substring check, so "BTC" and "bitcoins"
// both trigger retrieval.
func shouldRetrieve(input string) bool {
	lowered := strings.ToLower(input)
	for _, kw := range retrievalKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
