package tracing

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTraceID(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := GenerateTraceID()
		require.Len(t, id, 32)
		_, err := hex.DecodeString(id)
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestFallbackTraceID(t *testing.T) {
	a := fallbackTraceID()
	b := fallbackTraceID()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
