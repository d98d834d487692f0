package services

import "strings"

// SentimentLabel is one of the three fixed sentiment buckets.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// LexiconVersion identifies the keyword table below. Bump it whenever the
// lexicon changes so classification shifts are traceable in exports.
const LexiconVersion = "1"

// The lexicons are data, not code: classification is a case-insensitive
// substring match against these lists, checked positive first, then
// negative, with neutral as the fallback. This is an explicit heuristic for
// dashboard summaries, not semantic sentiment analysis.
var sentimentLexicon = map[SentimentLabel][]string{
	SentimentPositive: {"yes", "recommend", "like", "good", "excellent", "love", "great", "awesome", "definitely", "satisfied", "agree"},
	SentimentNegative: {"no", "dislike", "bad", "terrible", "hate", "never", "awful", "disappointed", "disagree"},
	SentimentNeutral:  {"maybe", "neutral", "okay", "ok", "perhaps", "average", "somewhat"},
}

// SentimentSlice is one bucket of the sentiment distribution.
type SentimentSlice struct {
	Label      SentimentLabel `json:"label"`
	Percentage int            `json:"percentage"`
	Count      int            `json:"count"`
}

// ClassifyOption buckets a single option text. Positive keywords take
// priority over negative ones; anything matching neither lexicon is neutral.
func ClassifyOption(text string) SentimentLabel {
	lower := strings.ToLower(text)
	for _, kw := range sentimentLexicon[SentimentPositive] {
		if strings.Contains(lower, kw) {
			return SentimentPositive
		}
	}
	for _, kw := range sentimentLexicon[SentimentNegative] {
		if strings.Contains(lower, kw) {
			return SentimentNegative
		}
	}
	return SentimentNeutral
}

// Sentiment classifies every selected option of the non-quiz responses and
// returns the bucket distribution in Positive/Neutral/Negative order.
// Buckets with zero count are omitted; percentages are computed over the
// total number of classified selections.
func Sentiment(responses []SurveyResponse, defs []*SurveyDefinition) []SentimentSlice {
	byKey := definitionIndex(defs)
	counts := map[SentimentLabel]int{}
	total := 0
	for _, r := range responses {
		if len(r.CorrectOption) > 0 {
			continue
		}
		d := byKey[definitionKey(r.CampaignID, r.Question)]
		if d == nil {
			continue
		}
		for _, idx := range r.SelectedOption {
			if idx < 0 || idx >= len(d.QuestionOptions) {
				continue
			}
			counts[ClassifyOption(d.QuestionOptions[idx])]++
			total++
		}
	}

	out := make([]SentimentSlice, 0, 3)
	for _, label := range []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative} {
		c := counts[label]
		if c == 0 {
			continue
		}
		out = append(out, SentimentSlice{Label: label, Percentage: roundPct(c, total), Count: c})
	}
	return out
}
