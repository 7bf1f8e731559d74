package extract

import (
	"testing"

	"github.com/poiesic/enrichproxy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigs(t *testing.T) core.ConfigSet {
	t.Helper()
	set, err := core.NewConfigSet(
		core.FieldConfig{IndexName: "tweeter", FieldName: "text", Operations: []core.Operation{core.DetectSentiment, core.DetectEntities}, Language: core.English},
		core.FieldConfig{IndexName: "tweeter", FieldName: "lang", Operations: []core.Operation{core.DetectDominantLanguage}, Language: core.French},
		core.FieldConfig{IndexName: "news", FieldName: "body", Operations: []core.Operation{core.DetectKeyPhrases}, Language: core.German},
	)
	require.NoError(t, err)
	return set
}

func TestFromDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"user":{"name":"x","text":"nested wins"},"text":"top","lang":"bonjour"}`))
	require.NoError(t, err)

	items := FromDocument(doc, "tweeter", 0, testConfigs(t))
	require.Len(t, items, 3)

	assert.Equal(t, core.ExtractionItem{
		Content: "bonjour", Operation: core.DetectDominantLanguage, Language: core.French,
		Locator: core.Locator{Label: "lang_DetectDominantLanguage"},
	}, items[0])
	assert.Equal(t, "nested wins", items[1].Content)
	assert.Equal(t, "text_DetectEntities", items[1].Locator.Label)
	assert.Equal(t, "text_DetectSentiment", items[2].Locator.Label)
}

func TestFromDocumentNoMatch(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"text":"hello"}`))
	require.NoError(t, err)

	assert.Empty(t, FromDocument(doc, "facebook", 0, testConfigs(t)))
	assert.Empty(t, FromDocument(doc, "news", 0, testConfigs(t)))
	assert.Empty(t, FromDocument(doc, "tweeter", 0, core.ConfigSet{}))
}

func TestParseDocumentRejectsNonObjects(t *testing.T) {
	_, err := ParseDocument([]byte(`["text"]`))
	assert.ErrorIs(t, err, ErrMalformedDocument)

	_, err = ParseDocument([]byte(`{"text":`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParseBulk(t *testing.T) {
	body := `{"index":{"_index":"tweeter","_id":"1"}}
{"text":"ok"}
{"delete":{"_index":"facebook","_id":"2"}}
{"create":{"_index":"news","_id":"3"}}
{"body":"headline"}
{"update":{"_index":"tweeter","_id":"4"}}
{"doc":{"text":"partial"}}
{"index":{"_id":"5"}}
{"text":"no index"}
`
	payload := ParseBulk(body)
	require.Len(t, payload.Lines, 9)
	require.Len(t, payload.Sources, 2)
	assert.Equal(t, 1, payload.Sources[0].Position)
	assert.Equal(t, "tweeter", payload.Sources[0].Index)
	assert.Equal(t, 4, payload.Sources[1].Position)
	assert.Equal(t, "news", payload.Sources[1].Index)

	items, err := payload.Items(testConfigs(t))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, core.Locator{Label: "text_DetectEntities", Position: 1}, items[0].Locator)
	assert.Equal(t, core.Locator{Label: "text_DetectSentiment", Position: 1}, items[1].Locator)
	assert.Equal(t, core.Locator{Label: "body_DetectKeyPhrases", Position: 4}, items[2].Locator)
	assert.Equal(t, "headline", items[2].Content)

	assert.Equal(t, body, payload.Body())
}

func TestParseBulkDeleteOnly(t *testing.T) {
	body := "{\"delete\":{\"_index\":\"tweeter\",\"_id\":\"1\"}}\n{\"delete\":{\"_index\":\"tweeter\",\"_id\":\"2\"}}\n"
	payload := ParseBulk(body)
	assert.Empty(t, payload.Sources)

	items, err := payload.Items(testConfigs(t))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseBulkTrailingAction(t *testing.T) {
	payload := ParseBulk("{\"index\":{\"_index\":\"tweeter\"}}")
	assert.Empty(t, payload.Sources)
	assert.Equal(t, "{\"index\":{\"_index\":\"tweeter\"}}\n", payload.Body())
}

func TestBulkItemsMalformedSource(t *testing.T) {
	payload := ParseBulk("{\"index\":{\"_index\":\"tweeter\"}}\n{\"text\":\n")
	_, err := payload.Items(testConfigs(t))
	assert.ErrorIs(t, err, ErrMalformedDocument)

	unconfigured := ParseBulk("{\"index\":{\"_index\":\"facebook\"}}\n{\"text\":\n")
	items, err := unconfigured.Items(testConfigs(t))
	require.NoError(t, err, "sources of unconfigured indexes are never decoded")
	assert.Empty(t, items)
}
