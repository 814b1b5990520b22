package service_test

import (
	"testing"

	"github.com/SergeiKhy/ulink-shortener/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShortID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := service.GenerateShortID()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Za-z0-9]{8}$`, id)
		seen[id] = true
	}
	// 62^8 вариантов, совпадения на 200 штуках практически исключены
	assert.Greater(t, len(seen), 190)
}

func TestGenerateAccountID(t *testing.T) {
	for i := 0; i < 200; i++ {
		id, err := service.GenerateAccountID()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{8}$`, id)
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"ftp://files.example.com/a.txt", true},
		{"https://localhost:8080", true},
		{"example.com", false},
		{"/relative/path", false},
		{"https://", false},
		{"", false},
		{"   ", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, service.IsValidURL(tt.url))
		})
	}
}
