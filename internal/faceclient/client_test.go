package faceclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["image_b64"])
		json.NewEncoder(w).Encode(DetectResult{FacesDetected: 2, Score: 0.8})
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	n, err := c.CountFaces(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountFacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	_, err := c.CountFaces(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestCountFacesSkip(t *testing.T) {
	c := New("http://unused", true)
	n, err := c.CountFaces(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
