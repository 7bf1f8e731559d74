package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/ai/mock"
	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/enrich"
	"github.com/poiesic/enrichproxy/fieldconfig"
	"github.com/poiesic/enrichproxy/provision"
	"github.com/poiesic/enrichproxy/storage"
	"github.com/poiesic/enrichproxy/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

// recordingClient implements backend.Client for testing.
type recordingClient struct {
	mu        sync.Mutex
	forwarded []*backend.Request
	err       error
}

func (c *recordingClient) Forward(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.forwarded = append(c.forwarded, req)
	return &backend.Response{
		StatusCode: http.StatusCreated,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"result":"created"}`),
	}, nil
}

func (c *recordingClient) IndexAbsent(ctx context.Context, index string) (bool, error) {
	return true, nil
}

func (c *recordingClient) requests() []*backend.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*backend.Request(nil), c.forwarded...)
}

type fixture struct {
	processor  *Processor
	client     *recordingClient
	analyzer   *mock.MockAnalyzer
	repository storage.ConfigRepository
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	repo, err := badger.NewMemoryConfigRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	analyzer := mock.NewMockAnalyzer()
	executor, err := enrich.NewExecutor(analyzer, enrich.WithPoolSize(4))
	require.NoError(t, err)
	t.Cleanup(executor.Release)

	client := &recordingClient{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	processor, err := NewProcessor(client, repo, executor, opts...)
	require.NoError(t, err)

	return &fixture{processor: processor, client: client, analyzer: analyzer, repository: repo}
}

func (f *fixture) configure(t *testing.T, configs ...core.FieldConfig) {
	t.Helper()
	set, err := core.NewConfigSet(configs...)
	require.NoError(t, err)
	require.NoError(t, f.repository.Save(context.Background(), set))
}

var sentimentConfig = core.FieldConfig{
	IndexName:  "tweeter",
	FieldName:  "text",
	Operations: []core.Operation{core.DetectSentiment},
	Language:   core.English,
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestIndexEnrichment(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)

	resp, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPut,
		Path:   "/tweeter/_doc/1",
		Body:   []byte(`{"text":"great day"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	forwarded := f.client.requests()
	require.Len(t, forwarded, 1)
	assert.Equal(t, "/tweeter/_doc/1", forwarded[0].Path)

	doc := decode(t, forwarded[0].Body)
	assert.Equal(t, "great day", doc["text"])
	require.Contains(t, doc, "text_DetectSentiment")
	sentiment := doc["text_DetectSentiment"].(map[string]any)
	assert.Equal(t, "NEUTRAL", sentiment["sentiment"])
	assert.NotContains(t, sentiment, "sdkResponseMetadata")
	assert.Equal(t, "2024-03-01T12:30:00Z", doc["process_time"])
	assert.NotContains(t, doc, "text_DetectSentiment_Kibana", "sentiment has no companion field")
	assert.Equal(t, 1, f.analyzer.CallCount())
}

func TestIndexEnrichmentCompanions(t *testing.T) {
	f := setup(t)
	f.configure(t, core.FieldConfig{
		IndexName:  "tweeter",
		FieldName:  "text",
		Operations: []core.Operation{core.DetectEntities, core.DetectKeyPhrases},
		Language:   core.English,
	})

	_, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/tweeter/_doc",
		Body:   []byte(`{"user":{"text":"Alice met Bob"}}`),
	})
	require.NoError(t, err)

	doc := decode(t, f.client.requests()[0].Body)
	assert.Equal(t, map[string]any{"OTHER": []any{
		map[string]any{"score": 0.9, "type": "OTHER", "text": "Alice", "beginOffset": float64(0), "endOffset": float64(5)},
		map[string]any{"score": 0.9, "type": "OTHER", "text": "Bob", "beginOffset": float64(10), "endOffset": float64(13)},
	}}, doc["text_DetectEntities_Kibana"])
	assert.Equal(t, map[string]any{"keyPhrases": []any{
		map[string]any{"score": 0.9, "text": "Alice met Bob", "beginOffset": float64(0), "endOffset": float64(13)},
	}}, doc["text_DetectKeyPhrases_Kibana"])
}

func TestIndexAnalysisFailureIsInline(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)
	f.analyzer.AnalyzeFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error) {
		return nil, &ai.ServiceError{StatusCode: 400, Code: "TextSizeLimitExceededException", RequestID: "req-1", Message: "too long"}
	}

	resp, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPut,
		Path:   "/tweeter/_doc/1",
		Body:   []byte(`{"text":"great day"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	doc := decode(t, f.client.requests()[0].Body)
	assert.NotContains(t, doc, "text_DetectSentiment")
	assert.Equal(t, map[string]any{
		"statusCode":   float64(400),
		"errorCode":    "TextSizeLimitExceededException",
		"requestId":    "req-1",
		"errorMessage": "too long",
	}, doc["text_DetectSentiment_Error"])
	assert.Contains(t, doc, "process_time")
}

func TestPassthrough(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)

	tests := []struct {
		name string
		req  *backend.Request
	}{
		{"unconfigured index", &backend.Request{Method: http.MethodPut, Path: "/facebook/_doc/1", Body: []byte(`{"text":"great day"}`)}},
		{"no configured field", &backend.Request{Method: http.MethodPut, Path: "/tweeter/_doc/1", Body: []byte(`{"message":"great day"}`)}},
		{"empty body", &backend.Request{Method: http.MethodPut, Path: "/tweeter/_doc/1"}},
		{"search", &backend.Request{Method: http.MethodPost, Path: "/tweeter/_search", Body: []byte(`{"query":{"match_all":{}}}`)}},
		{"read", &backend.Request{Method: http.MethodGet, Path: "/tweeter/_doc/1"}},
		{"bulk without configured sources", &backend.Request{Method: http.MethodPost, Path: "/_bulk", Body: []byte("{\"index\":{\"_index\":\"facebook\"}}\n{\"text\":\"x\"}\n")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.client.requests())
			_, err := f.processor.Process(context.Background(), tt.req)
			require.NoError(t, err)

			forwarded := f.client.requests()
			require.Len(t, forwarded, before+1)
			assert.Same(t, tt.req, forwarded[before], "request forwarded as received")
		})
	}
	assert.Zero(t, f.analyzer.CallCount())
	assert.Zero(t, f.analyzer.BatchCallCount())
}

func TestPassthroughWithoutConfiguration(t *testing.T) {
	f := setup(t)
	req := &backend.Request{Method: http.MethodPut, Path: "/tweeter/_doc/1", Body: []byte(`{"text":"great day"}`)}

	_, err := f.processor.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, req, f.client.requests()[0])
}

func TestBulkDeleteOnlyIsUnchanged(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)

	body := "{\"delete\":{\"_index\":\"tweeter\",\"_id\":\"1\"}}\n{\"delete\":{\"_index\":\"facebook\",\"_id\":\"2\"}}\n"
	_, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/_bulk",
		Body:   []byte(body),
	})
	require.NoError(t, err)

	assert.Equal(t, body, string(f.client.requests()[0].Body))
	assert.Zero(t, f.analyzer.BatchCallCount())
}

func TestBulkEnrichment(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)

	action := `{"index":{"_index":"tweeter","_id":"1"}}`
	deletion := `{"delete":{"_index":"facebook","_id":"2"}}`
	body := action + "\n" + `{"text":"ok"}` + "\n" + deletion + "\n"

	_, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/_bulk",
		Body:   []byte(body),
	})
	require.NoError(t, err)

	forwarded := string(f.client.requests()[0].Body)
	require.True(t, strings.HasSuffix(forwarded, "\n"))
	lines := strings.Split(strings.TrimSuffix(forwarded, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, action, lines[0])
	assert.Equal(t, deletion, lines[2])
	assert.JSONEq(t, `{
		"text":"ok",
		"text_DetectSentiment":{"sentiment":"NEUTRAL","sentimentScore":{"positive":0,"negative":0,"neutral":1,"mixed":0}},
		"process_time":"2024-03-01T12:30:00Z"
	}`, lines[1])
	assert.Equal(t, 1, f.analyzer.BatchCallCount())
	assert.Zero(t, f.analyzer.CallCount())
}

func TestBulkBatchesByKey(t *testing.T) {
	f := setup(t)
	f.configure(t,
		sentimentConfig,
		core.FieldConfig{IndexName: "news", FieldName: "body", Operations: []core.Operation{core.DetectDominantLanguage}, Language: core.German},
	)

	var b strings.Builder
	for range 30 {
		b.WriteString("{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"ok\"}\n")
	}
	b.WriteString("{\"create\":{\"_index\":\"news\"}}\n{\"body\":\"Hallo\"}\n")

	_, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/_bulk",
		Body:   []byte(b.String()),
	})
	require.NoError(t, err)

	// 30 sentiment items make two batches; the language item makes a third.
	assert.Equal(t, 3, f.analyzer.BatchCallCount())

	lines := strings.Split(strings.TrimSuffix(string(f.client.requests()[0].Body), "\n"), "\n")
	require.Len(t, lines, 62)
	for row := 1; row < 60; row += 2 {
		assert.Contains(t, decode(t, []byte(lines[row])), "text_DetectSentiment", "line %d", row)
	}
	assert.Contains(t, decode(t, []byte(lines[61])), "body_DetectDominantLanguage")
}

func TestBulkPartialFailure(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)
	f.analyzer.AnalyzeBatchFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error) {
		return nil, &ai.ServiceError{StatusCode: 429, Code: "ThrottlingException", Message: "rate exceeded"}
	}

	body := "{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"one\"}\n{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"two\"}\n"
	resp, err := f.processor.Process(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/_bulk",
		Body:   []byte(body),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	lines := strings.Split(strings.TrimSuffix(string(f.client.requests()[0].Body), "\n"), "\n")
	require.Len(t, lines, 4)
	first := decode(t, []byte(lines[1]))
	second := decode(t, []byte(lines[3]))
	assert.NotContains(t, first, "text_DetectSentiment")
	assert.Equal(t, first["text_DetectSentiment_Error"], second["text_DetectSentiment_Error"])
	assert.Equal(t, "ThrottlingException", first["text_DetectSentiment_Error"].(map[string]any)["errorCode"])
}

func TestBulkPerItemErrors(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)
	f.analyzer.AnalyzeBatchFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error) {
		value, err := mock.CannedResult(op, texts[1])
		if err != nil {
			return nil, err
		}
		return &ai.BatchResult{
			Results: []ai.BatchItem{{Index: 1, Value: value}},
			Errors:  []ai.BatchItemError{{Index: 0, ErrorCode: "InternalServerException", ErrorMessage: "boom"}},
		}, nil
	}

	body := "{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"one\"}\n{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"two\"}\n"
	_, err := f.processor.Process(context.Background(), &backend.Request{Method: http.MethodPost, Path: "/_bulk", Body: []byte(body)})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(f.client.requests()[0].Body), "\n"), "\n")
	assert.Contains(t, decode(t, []byte(lines[1])), "text_DetectSentiment_Error")
	assert.Contains(t, decode(t, []byte(lines[3])), "text_DetectSentiment")
}

func TestDeadlineFailsRequest(t *testing.T) {
	f := setup(t, WithDeadlines(20*time.Millisecond, 20*time.Millisecond))
	f.configure(t, sentimentConfig)
	block := func(ctx context.Context) error {
		<-ctx.Done()
		return &ai.ClientError{Err: ctx.Err()}
	}
	f.analyzer.AnalyzeFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, text string) (json.RawMessage, error) {
		return nil, block(ctx)
	}
	f.analyzer.AnalyzeBatchFunc = func(ctx context.Context, op core.Operation, lang core.LanguageCode, texts []string) (*ai.BatchResult, error) {
		return nil, block(ctx)
	}

	t.Run("index", func(t *testing.T) {
		_, err := f.processor.Process(context.Background(), &backend.Request{
			Method: http.MethodPut,
			Path:   "/tweeter/_doc/1",
			Body:   []byte(`{"text":"great day"}`),
		})
		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorIs(t, err, enrich.ErrDeadlineExceeded)
	})

	t.Run("bulk", func(t *testing.T) {
		resp := f.processor.Handle(context.Background(), &backend.Request{
			Method: http.MethodPost,
			Path:   "/_bulk",
			Body:   []byte("{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\"ok\"}\n"),
		})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, InternalMessage, string(resp.Body))
	})

	assert.Empty(t, f.client.requests(), "nothing is forwarded after a missed deadline")
}

func TestMalformedSourceFailsRequest(t *testing.T) {
	f := setup(t)
	f.configure(t, sentimentConfig)

	resp := f.processor.Handle(context.Background(), &backend.Request{
		Method: http.MethodPost,
		Path:   "/_bulk",
		Body:   []byte("{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\n"),
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, f.client.requests())
}

func TestBackendFailure(t *testing.T) {
	f := setup(t)
	f.client.err = errors.Join(backend.ErrUnavailable, errors.New("connection refused"))

	_, err := f.processor.Process(context.Background(), &backend.Request{Method: http.MethodGet, Path: "/_cluster/health"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, backend.ErrUnavailable)
}

const tweeterPayload = `{"fieldConfigurations":[{"indexName":"tweeter","fieldName":"text","operations":["DetectSentiment"],"languageCode":"en"}]}`

func TestConfigLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp := f.processor.Handle(ctx, &backend.Request{Method: http.MethodGet, Path: "/preprocessing_configurations"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodPut, Path: "/preprocessing_configurations", Body: []byte(tweeterPayload)})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))
	ackBody := decode(t, resp.Body)
	assert.Equal(t, true, ackBody["acknowledged"])
	assert.Equal(t, float64(1), ackBody["configurations"])
	assert.NotEmpty(t, ackBody["fingerprint"])

	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodGet, Path: "/preprocessing_configurations"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, tweeterPayload, string(resp.Body))

	update := `{"fieldConfigurations":[{"indexName":"facebook","fieldName":"message","operations":["DetectDominantLanguage"],"languageCode":"es"}]}`
	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodPost, Path: "/preprocessing_configurations/_update", Body: []byte(update)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), decode(t, resp.Body)["configurations"])

	stored, err := f.repository.Load(ctx)
	require.NoError(t, err)
	assert.True(t, stored.Contains("tweeter_text"))
	assert.True(t, stored.Contains("facebook_message"))

	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodPut, Path: "/preprocessing_configurations", Body: []byte(update)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored, err = f.repository.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len(), "a plain write replaces the stored set")

	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodDelete, Path: "/preprocessing_configurations"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = f.repository.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	resp = f.processor.Handle(ctx, &backend.Request{Method: http.MethodHead, Path: "/preprocessing_configurations"})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	assert.Empty(t, f.client.requests(), "configuration requests never reach the cluster without a provisioner")
}

func TestUpdateWithoutStoredConfigReplaces(t *testing.T) {
	f := setup(t)

	resp := f.processor.Handle(context.Background(), &backend.Request{
		Method: http.MethodPut,
		Path:   "/preprocessing_configurations/_update",
		Body:   []byte(tweeterPayload),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode(t, resp.Body)["configurations"])
}

func TestConfigRejections(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", fieldconfig.MsgEmptyBody},
		{"malformed", `{"fieldConfigurations":[`, fieldconfig.MsgMalformed},
		{"duplicated", `{"fieldConfigurations":[
			{"indexName":"tweeter","fieldName":"text","operations":["DetectSentiment"],"languageCode":"en"},
			{"indexName":"tweeter","fieldName":"text","operations":["DetectSyntax"],"languageCode":"en"}]}`, fieldconfig.MsgDuplicated},
		{"missing field", `{"fieldConfigurations":[{"indexName":"tweeter","fieldName":"","operations":["DetectSentiment"],"languageCode":"en"}]}`, fieldconfig.MsgMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.processor.Process(context.Background(), &backend.Request{
				Method: http.MethodPut,
				Path:   "/preprocessing_configurations",
				Body:   []byte(tt.body),
			})
			assert.ErrorIs(t, err, ErrInvalidInput)

			resp := f.processor.Handle(context.Background(), &backend.Request{
				Method: http.MethodPut,
				Path:   "/preprocessing_configurations",
				Body:   []byte(tt.body),
			})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, string(resp.Body))
		})
	}

	_, err := f.repository.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound, "rejected payloads are never saved")
}

func TestConfigProvisionsNewFields(t *testing.T) {
	client := &recordingClient{}
	provisioner, err := provision.NewProvisioner(client, provision.WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	f := setup(t, WithProvisioner(provisioner))
	ctx := context.Background()

	req := &backend.Request{Method: http.MethodPut, Path: "/preprocessing_configurations", Body: []byte(tweeterPayload)}
	resp := f.processor.Handle(ctx, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	puts := client.requests()
	require.Len(t, puts, 1)
	assert.Equal(t, http.MethodPut, puts[0].Method)
	assert.Equal(t, "/tweeter", puts[0].Path)
	assert.Contains(t, string(puts[0].Body), "text_DetectSentiment")

	resp = f.processor.Handle(ctx, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, client.requests(), 1, "known fields are not provisioned again")
}

func TestConfigProvisioningFailureIsIgnored(t *testing.T) {
	client := &recordingClient{err: backend.ErrUnavailable}
	provisioner, err := provision.NewProvisioner(client, provision.WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	f := setup(t, WithProvisioner(provisioner))

	resp := f.processor.Handle(context.Background(), &backend.Request{
		Method: http.MethodPut,
		Path:   "/preprocessing_configurations",
		Body:   []byte(tweeterPayload),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewProcessorValidation(t *testing.T) {
	repo, err := badger.NewMemoryConfigRepository()
	require.NoError(t, err)
	defer repo.Close()
	executor, err := enrich.NewExecutor(mock.NewMockAnalyzer())
	require.NoError(t, err)
	defer executor.Release()

	_, err = NewProcessor(nil, repo, executor)
	assert.ErrorIs(t, err, ErrBackendRequired)
	_, err = NewProcessor(&recordingClient{}, nil, executor)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = NewProcessor(&recordingClient{}, repo, nil)
	assert.ErrorIs(t, err, ErrExecutorRequired)
}

func TestInvalidInputError(t *testing.T) {
	err := invalidInput(fieldconfig.MsgEmptyBody, fieldconfig.ErrEmptyBody)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, fieldconfig.ErrEmptyBody)
	assert.NotErrorIs(t, err, ErrInternal)
}
