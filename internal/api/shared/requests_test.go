package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	t.Run("reads body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
		body, err := ReadBody(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, `{"title":"x"}`, string(body))
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		body, err := ReadBody(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("oversized body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(make([]byte, MaxBodyBytes+1)))
		_, err := ReadBody(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})
}
