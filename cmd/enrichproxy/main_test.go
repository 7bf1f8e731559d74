package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"enrichproxy", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")
	payload := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"fieldConfigurations":[
		{"indexName":"tweeter","fieldName":"text","operations":["DetectSentiment"],"languageCode":"en"}]}`), 0644))
	update := filepath.Join(dir, "update.json")
	require.NoError(t, os.WriteFile(update, []byte(`{"fieldConfigurations":[
		{"indexName":"news","fieldName":"body","operations":["DetectKeyPhrases"],"languageCode":"de"}]}`), 0644))

	out, err := run(t, "--store-path", store, "config", "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fieldConfigurations":[]}`, out)

	out, err = run(t, "--store-path", store, "config", "apply", "--file", payload)
	require.NoError(t, err)
	assert.Contains(t, out, "stored 1 configurations")

	out, err = run(t, "--store-path", store, "config", "apply", "--file", update, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "stored 2 configurations")

	out, err = run(t, "--store-path", store, "config", "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fieldConfigurations":[
		{"indexName":"news","fieldName":"body","operations":["DetectKeyPhrases"],"languageCode":"de"},
		{"indexName":"tweeter","fieldName":"text","operations":["DetectSentiment"],"languageCode":"en"}]}`, out)

	_, err = run(t, "--store-path", store, "config", "clear")
	require.NoError(t, err)

	out, err = run(t, "--store-path", store, "config", "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fieldConfigurations":[]}`, out)
}

func TestConfigApplyRejectsInvalidPayload(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"fieldConfigurations":[
		{"indexName":"tweeter","fieldName":"text","operations":["DetectSentiment"],"languageCode":"en"},
		{"indexName":"tweeter","fieldName":"text","operations":["DetectSyntax"],"languageCode":"en"}]}`), 0644))

	_, err := run(t, "--store-path", filepath.Join(dir, "store"), "config", "apply", "--file", payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated index-fieldName pair")

	_, err = run(t, "--store-path", filepath.Join(dir, "store"), "config", "apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestSettingsOverrides(t *testing.T) {
	_, err := run(t, "--store", "s3", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store kind")

	_, err = run(t, "--analyzer", "bedrock", "--store-path", t.TempDir(), "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend")
}

func TestAnalyzeCommandValidation(t *testing.T) {
	_, err := run(t, "analyze", "--operation", "DetectSentiment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required")

	_, err = run(t, "analyze", "--operation", "DetectMood", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")

	_, err = run(t, "analyze", "--operation", "DetectSentiment", "--language", "xx", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")

	_, err = run(t, "analyze", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation")
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"enrichproxy", "--log-level", "verbose", "config", "show"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
