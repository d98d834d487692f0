package services

type AnalyticsStore interface {
	GetCampaign(id string) (*Campaign, error)
	ListUsers() ([]*User, error)
	ListDefinitions(campaignID string) ([]*SurveyDefinition, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

// QuestionInsights is one question's tally view for the dashboard.
type QuestionInsights struct {
	Question       string          `json:"question"`
	TotalResponses int             `json:"total_responses"`
	Options        []OptionInsight `json:"options"`
}

// CampaignSummary is the composite aggregate rendered by the dashboard. Each
// section is an independent view over the same snapshot; none depends on
// another's output.
type CampaignSummary struct {
	CampaignID     string             `json:"campaign_id"`
	Questions      []QuestionInsights `json:"questions"`
	Engagement     *EngagementSummary `json:"engagement"`
	Awareness      *AwarenessSummary  `json:"awareness"`
	Sentiment      []SentimentSlice   `json:"sentiment"`
	TopChoices     []ChoiceRank       `json:"top_choices"`
	LexiconVersion string             `json:"lexicon_version"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summary fetches one snapshot and computes every aggregate over it.
func (s *AnalyticsService) Summary(brandID, campaignID string) (*CampaignSummary, error) {
	c, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.BrandID != brandID {
		return nil, NewForbiddenError("forbidden")
	}
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, err
	}
	defs, err := s.store.ListDefinitions(campaignID)
	if err != nil {
		return nil, err
	}

	questions := make([]QuestionInsights, 0, len(defs))
	for _, d := range defs {
		total := 0
		for _, n := range d.OptionTally {
			total += n
		}
		questions = append(questions, QuestionInsights{
			Question:       d.Question,
			TotalResponses: total,
			Options:        InsightsOf(d),
		})
	}

	flat := FlattenResponses(campaignID, users)
	return &CampaignSummary{
		CampaignID:     campaignID,
		Questions:      questions,
		Engagement:     Engagement(campaignID, users, defs),
		Awareness:      Awareness(flat),
		Sentiment:      Sentiment(flat, defs),
		TopChoices:     TopChoices(flat, defs, 5),
		LexiconVersion: LexiconVersion,
	}, nil
}

// Respondents returns the deduplicated users who answered the question,
// optionally narrowed by a name/email search term.
func (s *AnalyticsService) Respondents(brandID, campaignID, question, term string) ([]*User, error) {
	c, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.BrandID != brandID {
		return nil, NewForbiddenError("forbidden")
	}
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, err
	}
	return FilterByNameOrEmail(RespondentsOf(question, campaignID, users), term), nil
}

// ExportCSV renders the campaign's question tallies as CSV text.
func (s *AnalyticsService) ExportCSV(brandID, campaignID string) ([]byte, error) {
	c, err := s.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.BrandID != brandID {
		return nil, NewForbiddenError("forbidden")
	}
	defs, err := s.store.ListDefinitions(campaignID)
	if err != nil {
		return nil, err
	}
	return ExportTalliesCSV(defs)
}
