package ai

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/enrichproxy/core"
)

// modelReply is the union of the per-operation replies requested by the prompts.
type modelReply struct {
	Index          *int               `json:"index,omitempty"`
	Sentiment      string             `json:"sentiment"`
	SentimentScore *SentimentScore    `json:"sentimentScore"`
	Entities       []modelSpan        `json:"entities"`
	KeyPhrases     []modelSpan        `json:"keyPhrases"`
	SyntaxTokens   []modelSpan        `json:"syntaxTokens"`
	Languages      []DominantLanguage `json:"languages"`
}

type modelSpan struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

type batchReply struct {
	Results []json.RawMessage `json:"results"`
}

// cleanReply strips markdown fences and repairs common key quoting mistakes.
func cleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	return repairJSON(strings.TrimSpace(reply))
}

// DecodeSingle turns a model reply for one text into the operation result.
func DecodeSingle(op core.Operation, source, reply string, meta *ResponseMetadata) (json.RawMessage, error) {
	var r modelReply
	if err := json.Unmarshal([]byte(cleanReply(reply)), &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return buildResult(op, source, &r, meta)
}

// DecodeBatch turns a model reply for a batch into per-text results. Texts
// without a usable answer are reported in BatchResult.Errors.
func DecodeBatch(op core.Operation, sources []string, reply string, meta *ResponseMetadata) (*BatchResult, error) {
	var br batchReply
	if err := json.Unmarshal([]byte(cleanReply(reply)), &br); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	result := &BatchResult{}
	answered := make([]bool, len(sources))

	for _, raw := range br.Results {
		var r modelReply
		if err := json.Unmarshal(raw, &r); err != nil || r.Index == nil {
			continue
		}
		idx := *r.Index
		if idx < 0 || idx >= len(sources) || answered[idx] {
			continue
		}
		answered[idx] = true

		value, err := buildResult(op, sources[idx], &r, meta)
		if err != nil {
			result.Errors = append(result.Errors, BatchItemError{
				Index:        idx,
				ErrorCode:    CodeInvalidResponse,
				ErrorMessage: err.Error(),
			})
			continue
		}
		result.Results = append(result.Results, BatchItem{Index: idx, Value: value})
	}

	for idx, ok := range answered {
		if !ok {
			result.Errors = append(result.Errors, BatchItemError{
				Index:        idx,
				ErrorCode:    CodeMissingResult,
				ErrorMessage: "no result returned for this document",
			})
		}
	}

	return result, nil
}

func buildResult(op core.Operation, source string, r *modelReply, meta *ResponseMetadata) (json.RawMessage, error) {
	var out any
	switch op {
	case core.DetectSentiment:
		label := strings.ToUpper(strings.TrimSpace(r.Sentiment))
		if !validLabel(Sentiments, label) {
			return nil, fmt.Errorf("%w: unknown sentiment %q", ErrMalformedResponse, r.Sentiment)
		}
		score := sentimentScore(label, r.SentimentScore)
		out = SentimentResult{Sentiment: label, SentimentScore: score, Metadata: meta}

	case core.DetectEntities:
		entities := make([]Entity, 0, len(r.Entities))
		loc := newLocator(source)
		for _, e := range r.Entities {
			begin, end, ok := loc.find(e.Text)
			if !ok {
				continue
			}
			kind := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(e.Type), " ", "_"))
			if !validLabel(EntityTypes, kind) {
				kind = "OTHER"
			}
			entities = append(entities, Entity{Score: clampScore(e.Score), Type: kind, Text: e.Text, BeginOffset: begin, EndOffset: end})
		}
		out = EntitiesResult{Entities: entities, Metadata: meta}

	case core.DetectKeyPhrases:
		phrases := make([]KeyPhrase, 0, len(r.KeyPhrases))
		loc := newLocator(source)
		for _, p := range r.KeyPhrases {
			begin, end, ok := loc.find(p.Text)
			if !ok {
				continue
			}
			phrases = append(phrases, KeyPhrase{Score: clampScore(p.Score), Text: p.Text, BeginOffset: begin, EndOffset: end})
		}
		out = KeyPhrasesResult{KeyPhrases: phrases, Metadata: meta}

	case core.DetectSyntax:
		tokens := make([]SyntaxToken, 0, len(r.SyntaxTokens))
		loc := newLocator(source)
		for _, tok := range r.SyntaxTokens {
			begin, end, ok := loc.find(tok.Text)
			if !ok {
				continue
			}
			tag := strings.ToUpper(strings.TrimSpace(tok.Tag))
			if !validLabel(PartOfSpeechTags, tag) {
				tag = "O"
			}
			tokens = append(tokens, SyntaxToken{
				TokenID:      len(tokens) + 1,
				Text:         tok.Text,
				BeginOffset:  begin,
				EndOffset:    end,
				PartOfSpeech: PartOfSpeech{Tag: tag, Score: clampScore(tok.Score)},
			})
		}
		out = SyntaxResult{SyntaxTokens: tokens, Metadata: meta}

	case core.DetectDominantLanguage:
		languages := make([]DominantLanguage, 0, len(r.Languages))
		for _, l := range r.Languages {
			code := strings.ToLower(strings.TrimSpace(l.LanguageCode))
			if code == "" {
				continue
			}
			languages = append(languages, DominantLanguage{LanguageCode: code, Score: clampScore(l.Score)})
		}
		if len(languages) == 0 {
			return nil, fmt.Errorf("%w: no language detected", ErrMalformedResponse)
		}
		slices.SortStableFunc(languages, func(a, b DominantLanguage) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			}
			return 0
		})
		out = DominantLanguageResult{Languages: languages, Metadata: meta}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}

	return json.Marshal(out)
}

func sentimentScore(label string, s *SentimentScore) SentimentScore {
	if s != nil {
		return SentimentScore{
			Positive: clampScore(s.Positive),
			Negative: clampScore(s.Negative),
			Neutral:  clampScore(s.Neutral),
			Mixed:    clampScore(s.Mixed),
		}
	}
	var score SentimentScore
	switch label {
	case "POSITIVE":
		score.Positive = 1
	case "NEGATIVE":
		score.Negative = 1
	case "NEUTRAL":
		score.Neutral = 1
	case "MIXED":
		score.Mixed = 1
	}
	return score
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// spanLocator finds character offsets of successive spans within a source.
// Spans are searched from the end of the previous match first, then from the
// start, so repeated words resolve to their occurrences in order.
type spanLocator struct {
	source string
	cursor int // byte offset
}

func newLocator(source string) *spanLocator {
	return &spanLocator{source: source}
}

func (l *spanLocator) find(span string) (begin, end int, ok bool) {
	if span == "" {
		return 0, 0, false
	}
	at := strings.Index(l.source[l.cursor:], span)
	if at >= 0 {
		at += l.cursor
	} else {
		at = strings.Index(l.source, span)
		if at < 0 {
			return 0, 0, false
		}
	}
	l.cursor = at + len(span)
	begin = utf8.RuneCountInString(l.source[:at])
	return begin, begin + utf8.RuneCountInString(span), true
}
