package services

import (
	"errors"
	"strings"
	"time"
)

// SurveyStore abstracts the persistence operations the submission workflow
// needs.
type SurveyStore interface {
	GetCampaign(id string) (*Campaign, error)
	GetUser(id string) (*User, error)
	GetDefinition(campaignID, brandID, question string) (*SurveyDefinition, error)
	InsertDefinition(d *SurveyDefinition) error
	UpdateDefinition(d *SurveyDefinition) error
	AppendResponse(userID string, r SurveyResponse) error
}

var (
	// ErrCampaignNotFound is returned when a submission references a missing campaign.
	ErrCampaignNotFound = errors.New("campaign not found")
	// ErrUserNotFound is returned when a submission references an unknown respondent.
	ErrUserNotFound = errors.New("user not found")
)

// SubmitRequest carries one user's answer to one question.
type SubmitRequest struct {
	CampaignID      string
	UserID          string
	Question        string
	QuestionOptions []string
	SelectedOption  []int
	CorrectOption   []int
	TimeSpent       float64
	VendorID        string
}

// SubmitResult reports what the submission changed.
type SubmitResult struct {
	DefinitionID string
	Counted      int
	NewQuestion  bool
}

// SurveyService hosts the submission workflow: it creates the question's
// definition the first time anyone answers it, keeps the running option
// tally, and appends the response to the user.
type SurveyService struct {
	store SurveyStore
	now   func() time.Time
	idGen func() string
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(8) },
	}
}

// SubmitResponse validates the submission, increments the definition tally
// for every in-range selected index (out-of-range indices are skipped, never
// rejected) and stores the response on the user. The definition's brand and
// vendor come from the campaign, not the request.
func (s *SurveyService) SubmitResponse(req SubmitRequest) (*SubmitResult, error) {
	if s.store == nil {
		return nil, errors.New("survey service store is nil")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, NewInvalidError("question required")
	}

	campaign, err := s.store.GetCampaign(req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	user, err := s.store.GetUser(req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	def, err := s.store.GetDefinition(campaign.ID, campaign.BrandID, question)
	if err != nil {
		return nil, err
	}
	created := false
	if def == nil {
		if len(req.QuestionOptions) == 0 {
			return nil, NewInvalidError("question_options required for a new question")
		}
		vendorID := strings.TrimSpace(req.VendorID)
		if vendorID == "" {
			vendorID = campaign.VendorID
		}
		def = &SurveyDefinition{
			ID:              s.idGen(),
			Question:        question,
			QuestionOptions: append([]string(nil), req.QuestionOptions...),
			OptionTally:     make([]int, len(req.QuestionOptions)),
			VendorID:        vendorID,
			CampaignID:      campaign.ID,
			BrandID:         campaign.BrandID,
			CreatedAt:       s.now(),
		}
		if err := s.store.InsertDefinition(def); err != nil {
			return nil, err
		}
		created = true
	}

	counted := 0
	for _, idx := range req.SelectedOption {
		if idx < 0 || idx >= len(def.OptionTally) {
			continue
		}
		def.OptionTally[idx]++
		counted++
	}
	if counted > 0 {
		if err := s.store.UpdateDefinition(def); err != nil {
			return nil, err
		}
	}

	timeSpent := req.TimeSpent
	if timeSpent < 0 {
		timeSpent = 0
	}
	resp := SurveyResponse{
		CampaignID:     campaign.ID,
		Question:       question,
		SelectedOption: append([]int(nil), req.SelectedOption...),
		CorrectOption:  append([]int(nil), req.CorrectOption...),
		TimeSpent:      timeSpent,
		SubmittedAt:    s.now(),
	}
	if err := s.store.AppendResponse(user.ID, resp); err != nil {
		return nil, err
	}

	return &SubmitResult{DefinitionID: def.ID, Counted: counted, NewQuestion: created}, nil
}
