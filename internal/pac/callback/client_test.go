package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
)

func TestClient_Notify(t *testing.T) {
	var got payload

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, callbackPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := New(ts.URL+"/", time.Second)

	require.NoError(t, c.Notify(context.Background(), "A", pac.StatusCancelada))
	assert.Equal(t, payload{UUID: "A", Status: "CANCELADA"}, got)
}

func TestClient_Notify_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Callback inválido", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)

	err := c.Notify(context.Background(), "A", pac.StatusRechazada)
	assert.ErrorContains(t, err, "unexpected status code 400")
}

func TestClient_Notify_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := New(url, time.Second)

	assert.Error(t, c.Notify(context.Background(), "A", pac.StatusCancelada))
}

func TestClient_Notify_Timeout(t *testing.T) {
	release := make(chan struct{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := New(ts.URL, 50*time.Millisecond)

	assert.Error(t, c.Notify(context.Background(), "A", pac.StatusCancelada))
}
