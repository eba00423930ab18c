package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestMetadata(t *testing.T) {
	e := New()
	assert.Equal(t, "plaintext", e.Name())
	assert.Equal(t, 5, e.Priority())
	assert.Contains(t, e.SupportedExtensions(), ".txt")
	assert.Contains(t, e.SupportedExtensions(), ".go")
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"plain", []byte("hello world"), "hello world"},
		{"byte order mark", []byte("\xef\xbb\xbfhello"), "hello"},
		{"invalid utf8", []byte("caf\xe9"), "caf\uFFFD"},
		{"empty", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Extract(context.Background(), &domain.RawFile{Name: "a.txt", Content: tt.content})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtract_Binary(t *testing.T) {
	_, err := New().Extract(context.Background(), &domain.RawFile{Name: "a.txt", Content: []byte("ab\x00cd")})
	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
}

func TestExtract_Nil(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
