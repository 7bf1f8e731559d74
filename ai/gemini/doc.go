// Package gemini provides the analysis service on the Google Gemini API
// through the genai SDK. Replies are requested as JSON and decoded by
// ai.LLMAnalyzer.
package gemini
