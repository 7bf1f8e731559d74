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


// Package openai provides the analysis service on OpenAI-compatible chat APIs.
//
// This package implements ai.Provider using the langchaingo library to talk
// to OpenAI or OpenAI-compatible services (such as Ollama, LocalAI, or vLLM).
// Prompts are sent in JSON mode and decoded by ai.LLMAnalyzer.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	value, err := provider.Analyzer().Analyze(ctx, core.DetectEntities, core.English, "The Eiffel Tower is in Paris")
package openai
