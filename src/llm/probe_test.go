package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chefbot/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOllama(t *testing.T, pulled string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/" && r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/show":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			if strings.Contains(string(body), pulled) {
				_, _ = w.Write([]byte(`{"modelfile":""}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model not found"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaProbe(t *testing.T) {
	srv := fakeOllama(t, "supachai/llama-3-typhoon-v1.5")

	probe, err := NewOllamaProbe(model.LLMConfig{BaseURL: srv.URL, Model: "supachai/llama-3-typhoon-v1.5"})
	require.NoError(t, err)
	assert.NoError(t, probe.Ping(context.Background()))

	missing, err := NewOllamaProbe(model.LLMConfig{BaseURL: srv.URL, Model: "llama3"})
	require.NoError(t, err)
	err = missing.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llama3")
}

func TestOllamaProbe_Unreachable(t *testing.T) {
	probe, err := NewOllamaProbe(model.LLMConfig{BaseURL: "http://127.0.0.1:1", Model: "x"})
	require.NoError(t, err)
	assert.Error(t, probe.Ping(context.Background()))
}
