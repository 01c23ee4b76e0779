package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	code, body := doJSON(t, HealthHandler, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestVersion(t *testing.T) {
	code, body := doJSON(t, VersionHandler, "GET", "/api/version", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["version"])
}

func TestAPINotFound(t *testing.T) {
	code, body := doJSON(t, NotFoundHandler, "GET", "/api/bogus", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", body["error"])
}
