package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}))
}

func TestProviderAnalyze(t *testing.T) {
	server := chatServer(t, `{"sentiment":"POSITIVE","sentimentScore":{"positive":0.97,"negative":0.01,"neutral":0.01,"mixed":0.01}}`)
	defer server.Close()

	provider, err := NewProvider(ai.NewConfig(
		ai.WithHost(server.URL),
		ai.WithModel("test-model"),
		ai.WithRateLimit(0, 0),
	))
	require.NoError(t, err)
	defer provider.Close()

	value, err := provider.Analyzer().Analyze(context.Background(), core.DetectSentiment, core.English, "great day")
	require.NoError(t, err)

	var got ai.SentimentResult
	require.NoError(t, json.Unmarshal(value, &got))
	assert.Equal(t, "POSITIVE", got.Sentiment)
	assert.Equal(t, "test-model", got.Metadata.Model)
}

func TestNewProviderValidatesConfig(t *testing.T) {
	_, err := NewProvider(ai.NewConfig(ai.WithModel("")))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	var ce *ai.ClientError
	assert.ErrorAs(t, classify(&url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")}), &ce)
	assert.ErrorAs(t, classify(context.DeadlineExceeded), &ce)

	var se *ai.ServiceError
	require.ErrorAs(t, classify(errors.New("API returned unexpected status code: 400")), &se)
	assert.Equal(t, ai.CodeInternalFailure, se.Code)
}
