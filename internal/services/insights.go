package services

import (
	"math"
	"sort"
	"strings"
)

// The aggregate functions in this file are the survey analytics engine: each
// is a pure pass over a read-only snapshot of users and definitions. They
// never mutate their inputs and return values with no references back into
// them, so recomputing from the same snapshot always yields the same output
// and the functions may run concurrently over one snapshot.

// OptionInsight is the percentage/count pair for one selectable option.
type OptionInsight struct {
	Label      string `json:"label"`
	Percentage int    `json:"percentage"`
	Count      int    `json:"count"`
}

// QuestionTiming is the average answer duration for one question.
type QuestionTiming struct {
	Question      string  `json:"question"`
	AvgTime       float64 `json:"avg_time"`
	ResponseCount int     `json:"response_count"`
}

// EngagementSummary aggregates participation and time-spent statistics for a
// campaign.
type EngagementSummary struct {
	TotalParticipants  int              `json:"total_participants"`
	TotalTimeSpent     int              `json:"total_time_spent"`
	AvgTimePerResponse float64          `json:"avg_time_per_response"`
	TimeByQuestion     []QuestionTiming `json:"time_by_question"`
}

// AwarenessBucket is one slice of the Correct/Incorrect breakdown.
type AwarenessBucket struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AwarenessSummary is the quiz-correctness aggregate. Each selected index of
// a quiz response counts as one answer, so a multi-select response can be
// partially correct.
type AwarenessSummary struct {
	Percentage   float64           `json:"percentage"`
	CorrectCount int               `json:"correct_count"`
	TotalAnswers int               `json:"total_answers"`
	Breakdown    []AwarenessBucket `json:"breakdown"`
}

// ChoiceRank is one entry of the top-preference ranking.
type ChoiceRank struct {
	Choice     string `json:"choice"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// RespondentsOf returns every user with at least one response matching the
// question and campaign. Question matching is exact and case-sensitive.
func RespondentsOf(question, campaignID string, users []*User) []*User {
	out := make([]*User, 0)
	for _, u := range users {
		for _, r := range u.Survey {
			if r.CampaignID == campaignID && r.Question == question {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// FilterByNameOrEmail narrows a respondent set by case-insensitive substring
// match against name or email. An empty term returns the input unchanged.
func FilterByNameOrEmail(users []*User, term string) []*User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}
	out := make([]*User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), term) || strings.Contains(strings.ToLower(u.Email), term) {
			out = append(out, u)
		}
	}
	return out
}

// InsightsOf converts a definition's raw tallies into percentage/count pairs,
// one per option in option order. A zero total yields zero percentages.
func InsightsOf(def *SurveyDefinition) []OptionInsight {
	total := 0
	for _, n := range def.OptionTally {
		total += n
	}
	out := make([]OptionInsight, 0, len(def.QuestionOptions))
	for i, label := range def.QuestionOptions {
		count := 0
		if i < len(def.OptionTally) {
			count = def.OptionTally[i]
		}
		pct := 0
		if total > 0 {
			pct = roundPct(count, total)
		}
		out = append(out, OptionInsight{Label: label, Percentage: pct, Count: count})
	}
	return out
}

// FlattenResponses collects every response in the campaign across all users.
func FlattenResponses(campaignID string, users []*User) []SurveyResponse {
	out := make([]SurveyResponse, 0)
	for _, u := range users {
		for _, r := range u.Survey {
			if r.CampaignID == campaignID {
				out = append(out, r)
			}
		}
	}
	return out
}

// Engagement computes participant counts and time-spent statistics for a
// campaign. Responses with TimeSpent <= 0 carry no duration information and
// are excluded from the time figures; questions with no timed responses are
// omitted from TimeByQuestion rather than zero-filled.
func Engagement(campaignID string, users []*User, defs []*SurveyDefinition) *EngagementSummary {
	participants := map[string]struct{}{}
	flat := make([]SurveyResponse, 0)
	for _, u := range users {
		matched := false
		for _, r := range u.Survey {
			if r.CampaignID != campaignID {
				continue
			}
			flat = append(flat, r)
			matched = true
		}
		if matched {
			participants[u.ID] = struct{}{}
		}
	}

	totalSeconds := 0.0
	timed := 0
	for _, r := range flat {
		if r.TimeSpent > 0 {
			totalSeconds += r.TimeSpent
			timed++
		}
	}
	total := int(math.Round(totalSeconds))
	avg := 0.0
	if timed > 0 {
		avg = round1(float64(total) / float64(timed))
	}

	byQuestion := make([]QuestionTiming, 0, len(defs))
	for _, d := range defs {
		sum := 0.0
		n := 0
		for _, r := range flat {
			if r.Question == d.Question && r.TimeSpent > 0 {
				sum += r.TimeSpent
				n++
			}
		}
		if n == 0 {
			continue
		}
		a := round1(sum / float64(n))
		if a == 0 {
			continue
		}
		byQuestion = append(byQuestion, QuestionTiming{Question: d.Question, AvgTime: a, ResponseCount: n})
	}

	return &EngagementSummary{
		TotalParticipants:  len(participants),
		TotalTimeSpent:     total,
		AvgTimePerResponse: avg,
		TimeByQuestion:     byQuestion,
	}
}

// Awareness scores quiz responses (non-empty CorrectOption). Every selected
// index counts as one answer; it is correct when it is a member of the
// response's correct set.
func Awareness(responses []SurveyResponse) *AwarenessSummary {
	correct, total := 0, 0
	for _, r := range responses {
		if len(r.CorrectOption) == 0 {
			continue
		}
		correctSet := map[int]struct{}{}
		for _, idx := range r.CorrectOption {
			correctSet[idx] = struct{}{}
		}
		for _, idx := range r.SelectedOption {
			total++
			if _, ok := correctSet[idx]; ok {
				correct++
			}
		}
	}

	pct := 0.0
	breakdown := []AwarenessBucket{
		{Label: "Correct", Count: correct},
		{Label: "Incorrect", Count: total - correct},
	}
	if total > 0 {
		pct = round1(float64(correct) / float64(total) * 100)
		breakdown[0].Percentage = roundPct(correct, total)
		breakdown[1].Percentage = 100 - breakdown[0].Percentage
	}
	return &AwarenessSummary{
		Percentage:   pct,
		CorrectCount: correct,
		TotalAnswers: total,
		Breakdown:    breakdown,
	}
}

// TopChoices tallies selected option texts across all questions and returns
// the highest-ranked entries, descending by count with ties kept in
// first-encountered order. Identical option texts from different questions
// merge into one choice. A limit <= 0 falls back to 5.
func TopChoices(responses []SurveyResponse, defs []*SurveyDefinition, limit int) []ChoiceRank {
	if limit <= 0 {
		limit = 5
	}
	byKey := definitionIndex(defs)
	counts := map[string]int{}
	order := make([]string, 0)
	total := 0
	for _, r := range responses {
		d := byKey[definitionKey(r.CampaignID, r.Question)]
		if d == nil {
			continue
		}
		for _, idx := range r.SelectedOption {
			if idx < 0 || idx >= len(d.QuestionOptions) {
				continue
			}
			text := d.QuestionOptions[idx]
			if _, seen := counts[text]; !seen {
				order = append(order, text)
			}
			counts[text]++
			total++
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	out := make([]ChoiceRank, 0, len(order))
	for _, text := range order {
		out = append(out, ChoiceRank{Choice: text, Count: counts[text], Percentage: roundPct(counts[text], total)})
	}
	return out
}

func definitionIndex(defs []*SurveyDefinition) map[string]*SurveyDefinition {
	byKey := make(map[string]*SurveyDefinition, len(defs))
	for _, d := range defs {
		byKey[definitionKey(d.CampaignID, d.Question)] = d
	}
	return byKey
}

func definitionKey(campaignID, question string) string {
	return campaignID + "\x00" + question
}

func roundPct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
