package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"} when no database is wired.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := serve(h, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct{ Status string }
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
}

func TestGetHealth_DatabaseUp(t *testing.T) {
	pinged := false
	h := newHTTPHandler(deps{db: pingFunc(func(context.Context) error {
		pinged = true
		return nil
	})})

	rec := serve(h, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, pinged)
}

func TestGetHealth_DatabaseDown_503(t *testing.T) {
	h := newHTTPHandler(deps{db: pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	})})

	rec := serve(h, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct{ Status string }
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "unavailable", body.Status)
}
