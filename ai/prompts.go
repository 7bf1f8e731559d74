package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/enrichproxy/core"
)

const replyRules = `Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }.
The JSON must parse without errors; no trailing commas and no extraneous text outside the object.`

var operationInstructions = map[core.Operation]string{
	core.DetectSentiment: `Determine the prevailing sentiment of the text.
Return {"sentiment": LABEL, "sentimentScore": {"positive": P, "negative": N, "neutral": U, "mixed": M}}
where LABEL is one of %s and the four scores are numbers between 0 and 1 that sum to 1.`,

	core.DetectEntities: `Find the named entities mentioned in the text.
Return {"entities": [{"text": TEXT, "type": TYPE, "score": S}]}
where TEXT is copied verbatim from the text, TYPE is one of %s and S is a confidence between 0 and 1.
List entities in the order they appear. Return "entities": [] when there are none.`,

	core.DetectKeyPhrases: `Find the key noun phrases of the text.
Return {"keyPhrases": [{"text": TEXT, "score": S}]}
where TEXT is copied verbatim from the text and S is a confidence between 0 and 1.%s
List phrases in the order they appear. Return "keyPhrases": [] when there are none.`,

	core.DetectSyntax: `Split the text into words and punctuation and tag each with its part of speech.
Return {"syntaxTokens": [{"text": TOKEN, "tag": TAG, "score": S}]}
where TOKEN is copied verbatim from the text, TAG is one of %s and S is a confidence between 0 and 1.
Tokens must appear in text order and cover every word.`,

	core.DetectDominantLanguage: `Identify the languages the text is written in.
Return {"languages": [{"languageCode": CODE, "score": S}]}
where CODE is an ISO 639-1 code%s and S is a confidence between 0 and 1, highest score first.`,
}

// BuildSystemPrompt returns the instructions for one operation. When batch is
// true the model is told to answer for every text of a numbered list.
func BuildSystemPrompt(op core.Operation, lang core.LanguageCode, batch bool) (string, error) {
	tmpl, ok := operationInstructions[op]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}

	var detail string
	switch op {
	case core.DetectSentiment:
		detail = strings.Join(Sentiments, ", ")
	case core.DetectEntities:
		detail = strings.Join(EntityTypes, ", ")
	case core.DetectSyntax:
		detail = strings.Join(PartOfSpeechTags, ", ")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(tmpl, detail))
	b.WriteString("\n\n")
	if op.NeedsLanguage() {
		b.WriteString(fmt.Sprintf("The text is written in the language with ISO 639-1 code %q.\n\n", string(lang)))
	}
	if batch {
		b.WriteString(`The input is a JSON object {"texts": [...]}. Analyze every text independently and return
{"results": [{"index": I, ...}]} with one element per text, where I is the zero-based position of the text
in the input list and the remaining keys are the result described above.

`)
	}
	b.WriteString(replyRules)
	return b.String(), nil
}

// BuildBatchInput encodes texts as the user message of a batch prompt.
func BuildBatchInput(texts []string) (string, error) {
	data, err := json.Marshal(struct {
		Texts []string `json:"texts"`
	}{Texts: texts})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
