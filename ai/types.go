package ai

import "slices"

// Sentiments are the labels DetectSentiment may return.
var Sentiments = []string{"POSITIVE", "NEGATIVE", "NEUTRAL", "MIXED"}

// EntityTypes are the categories DetectEntities may return.
var EntityTypes = []string{
	"COMMERCIAL_ITEM",
	"DATE",
	"EVENT",
	"LOCATION",
	"ORGANIZATION",
	"OTHER",
	"PERSON",
	"QUANTITY",
	"TITLE",
}

// PartOfSpeechTags are the universal POS tags DetectSyntax may return.
var PartOfSpeechTags = []string{
	"ADJ", "ADP", "ADV", "AUX", "CCONJ", "CONJ", "DET", "INTJ", "NOUN", "NUM",
	"O", "PART", "PRON", "PROPN", "PUNCT", "SCONJ", "SYM", "VERB",
}

// ResponseMetadata describes the call that produced a result. Enriched
// documents never carry it.
type ResponseMetadata struct {
	RequestID string `json:"requestId,omitempty"`
	Model     string `json:"model,omitempty"`
}

// SentimentScore holds the confidence of each sentiment label.
type SentimentScore struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// SentimentResult is the result of DetectSentiment.
type SentimentResult struct {
	Sentiment      string            `json:"sentiment"`
	SentimentScore SentimentScore    `json:"sentimentScore"`
	Metadata       *ResponseMetadata `json:"sdkResponseMetadata,omitempty"`
}

// Entity is one named entity with character offsets into the text.
type Entity struct {
	Score       float64 `json:"score"`
	Type        string  `json:"type"`
	Text        string  `json:"text"`
	BeginOffset int     `json:"beginOffset"`
	EndOffset   int     `json:"endOffset"`
}

// EntitiesResult is the result of DetectEntities.
type EntitiesResult struct {
	Entities []Entity          `json:"entities"`
	Metadata *ResponseMetadata `json:"sdkResponseMetadata,omitempty"`
}

// KeyPhrase is one key noun phrase with character offsets into the text.
type KeyPhrase struct {
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	BeginOffset int     `json:"beginOffset"`
	EndOffset   int     `json:"endOffset"`
}

// KeyPhrasesResult is the result of DetectKeyPhrases.
type KeyPhrasesResult struct {
	KeyPhrases []KeyPhrase       `json:"keyPhrases"`
	Metadata   *ResponseMetadata `json:"sdkResponseMetadata,omitempty"`
}

// PartOfSpeech tags a syntax token.
type PartOfSpeech struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// SyntaxToken is one word of the text. TokenID starts at 1.
type SyntaxToken struct {
	TokenID      int          `json:"tokenId"`
	Text         string       `json:"text"`
	BeginOffset  int          `json:"beginOffset"`
	EndOffset    int          `json:"endOffset"`
	PartOfSpeech PartOfSpeech `json:"partOfSpeech"`
}

// SyntaxResult is the result of DetectSyntax.
type SyntaxResult struct {
	SyntaxTokens []SyntaxToken    `json:"syntaxTokens"`
	Metadata     *ResponseMetadata `json:"sdkResponseMetadata,omitempty"`
}

// DominantLanguage is one candidate language of a text.
type DominantLanguage struct {
	LanguageCode string  `json:"languageCode"`
	Score        float64 `json:"score"`
}

// DominantLanguageResult is the result of DetectDominantLanguage.
type DominantLanguageResult struct {
	Languages []DominantLanguage `json:"languages"`
	Metadata  *ResponseMetadata  `json:"sdkResponseMetadata,omitempty"`
}

func validLabel(set []string, label string) bool {
	return slices.Contains(set, label)
}
