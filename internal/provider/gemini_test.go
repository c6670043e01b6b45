package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPart struct {
	Text string `json:"text"`
}

type sentContent struct {
	Role  string     `json:"role"`
	Parts []sentPart `json:"parts"`
}

type sentGenerateRequest struct {
	Contents          []sentContent `json:"contents"`
	SystemInstruction *sentContent  `json:"systemInstruction"`
	GenerationConfig  struct {
		Temperature      float64 `json:"temperature"`
		ResponseMIMEType string  `json:"responseMimeType"`
	} `json:"generationConfig"`
}

func newGeminiServer(t *testing.T, body string, got *sentGenerateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiCompleteSendsGenerateRequest(t *testing.T) {
	var got sentGenerateRequest
	srv := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"disclaimer\":\"x\"}"}]}}]}`, &got)

	client, err := NewGemini(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), Request{
		System:      "sys",
		Prompt:      "user prompt",
		Model:       "gemini-2.0-flash",
		Temperature: 0.4,
		JSONMode:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"disclaimer":"x"}`, text)

	require.NotNil(t, got.SystemInstruction)
	require.Len(t, got.SystemInstruction.Parts, 1)
	assert.Equal(t, "sys", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "user prompt", got.Contents[0].Parts[0].Text)
	assert.InDelta(t, 0.4, got.GenerationConfig.Temperature, 1e-6)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMIMEType)
}

func TestGeminiCompleteOmitsMIMETypeWithoutJSONMode(t *testing.T) {
	var got sentGenerateRequest
	srv := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"plain"}]}}]}`, &got)

	client, err := NewGemini(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "p", Model: "gemini-2.0-flash", Temperature: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "plain", text)
	assert.Empty(t, got.GenerationConfig.ResponseMIMEType)
}

func TestGeminiCompleteWithoutCandidates(t *testing.T) {
	srv := newGeminiServer(t, `{"candidates":[]}`, nil)

	client, err := NewGemini(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{System: "sys", Prompt: "p", Model: "gemini-2.0-flash", Temperature: 0.4})
	assert.Error(t, err)
}

func TestGeminiCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
	}))
	defer srv.Close()

	client, err := NewGemini(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{System: "sys", Prompt: "p", Model: "gemini-2.0-flash", Temperature: 0.4})
	assert.Error(t, err)
}
