package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate(PrefixAnnotation)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"annotation", PrefixAnnotation},
		{"comment", PrefixComment},
		{"sse client", PrefixClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, tt.prefix+"-"))

			// NanoID default is 21 characters.
			nanoidPart := strings.TrimPrefix(id, tt.prefix+"-")
			assert.Len(t, nanoidPart, 21)

			for _, char := range nanoidPart {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"Character %c should be URL-safe", char)
			}
		})
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed(PrefixComment)

	first, err := gen()
	require.NoError(t, err)
	second, err := gen()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "cmt-"))
	assert.NotEqual(t, first, second)
}

func TestSequence(t *testing.T) {
	gen := Sequence("ann")

	for _, want := range []string{"ann-1", "ann-2", "ann-3"} {
		got, err := gen()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}
