package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ProtocolVersion tags the fingerprint layout. Bump it whenever the prompt
// construction changes, so stale entries can never be served across versions.
const ProtocolVersion = "v1"

// Fingerprint computes the cache key for one generation request. The hash
// covers, in order: protocol version, model id, sampling temperature, max
// token limit, the serialized conversation context and the reference document
// text. Identical inputs always map to the same key.
func Fingerprint(model string, temperature float32, maxTokens int, context string, docs string) string {
	h := sha256.New()
	for _, part := range []string{
		ProtocolVersion,
		model,
		strconv.FormatFloat(float64(temperature), 'g', -1, 32),
		strconv.Itoa(maxTokens),
		context,
		docs,
	} {
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
