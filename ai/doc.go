// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the abstraction over the external text-analysis service.
//
// The Analyzer interface exposes the two call forms of every analysis
// operation: Analyze for a single text and AnalyzeBatch for up to
// MaxBatchSize texts. Batch calls report per-text failures separately from
// successes, each tagged with the position of the text in the batch.
//
// Failures are classified so callers can turn them into inline error
// annotations:
//
//   - *ServiceError: the service rejected the call
//   - *ClientError: the call failed before reaching the service
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat APIs through langchaingo
//   - ai/gemini: Google Gemini through the genai SDK
//   - ai/mock: scriptable test double
//
// Both model-backed implementations plug a Completer into LLMAnalyzer, which
// owns prompting and decoding replies into the result schemas. RateLimited
// bounds the call rate of any Analyzer.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithModel("gpt-4o-mini"), ai.WithAPIKey(key))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	value, err := provider.Analyzer().Analyze(ctx, core.DetectSentiment, core.English, "great day")
package ai
