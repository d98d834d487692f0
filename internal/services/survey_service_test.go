package services

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type surveyStubStore struct {
	campaigns map[string]*Campaign
	users     map[string]*User
	defs      map[string]*SurveyDefinition
	appended  []SurveyResponse
}

func newSurveyStubStore() *surveyStubStore {
	return &surveyStubStore{
		campaigns: map[string]*Campaign{},
		users:     map[string]*User{},
		defs:      map[string]*SurveyDefinition{},
	}
}

func (s *surveyStubStore) GetCampaign(id string) (*Campaign, error) { return s.campaigns[id], nil }
func (s *surveyStubStore) GetUser(id string) (*User, error)         { return s.users[id], nil }

func (s *surveyStubStore) GetDefinition(campaignID, brandID, question string) (*SurveyDefinition, error) {
	return s.defs[campaignID+"/"+brandID+"/"+question], nil
}

func (s *surveyStubStore) InsertDefinition(d *SurveyDefinition) error {
	s.defs[d.CampaignID+"/"+d.BrandID+"/"+d.Question] = d
	return nil
}

func (s *surveyStubStore) UpdateDefinition(d *SurveyDefinition) error {
	s.defs[d.CampaignID+"/"+d.BrandID+"/"+d.Question] = d
	return nil
}

func (s *surveyStubStore) AppendResponse(userID string, r SurveyResponse) error {
	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	s.appended = append(s.appended, r)
	return nil
}

func newTestSurveyService(store *surveyStubStore) *SurveyService {
	svc := NewSurveyService(store)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.idGen = func() string { n++; return fmt.Sprintf("def%d", n) }
	return svc
}

func TestSubmitResponseCreatesDefinition(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1", VendorID: "V1"}
	store.users["U1"] = &User{ID: "U1", Name: "Ada"}
	svc := newTestSurveyService(store)

	res, err := svc.SubmitResponse(SubmitRequest{
		CampaignID:      "C1",
		UserID:          "U1",
		Question:        "Favorite color?",
		QuestionOptions: []string{"Red", "Blue"},
		SelectedOption:  []int{1},
		TimeSpent:       4.5,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.NewQuestion || res.Counted != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	def := store.defs["C1/B1/Favorite color?"]
	if def == nil {
		t.Fatalf("definition was not created")
	}
	if def.BrandID != "B1" || def.VendorID != "V1" {
		t.Fatalf("definition must inherit campaign brand/vendor, got %+v", def)
	}
	if def.OptionTally[0] != 0 || def.OptionTally[1] != 1 {
		t.Fatalf("unexpected tally: %v", def.OptionTally)
	}
	if len(store.appended) != 1 || store.appended[0].Question != "Favorite color?" {
		t.Fatalf("response was not appended: %+v", store.appended)
	}
}

func TestSubmitResponseIncrementsExistingTally(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1"}
	store.users["U1"] = &User{ID: "U1"}
	store.defs["C1/B1/Q1"] = &SurveyDefinition{
		ID: "d1", CampaignID: "C1", BrandID: "B1", Question: "Q1",
		QuestionOptions: []string{"A", "B"}, OptionTally: []int{2, 0},
	}
	svc := newTestSurveyService(store)

	res, err := svc.SubmitResponse(SubmitRequest{
		CampaignID: "C1", UserID: "U1", Question: "Q1", SelectedOption: []int{0, 1},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.NewQuestion {
		t.Fatalf("existing question must not be recreated")
	}
	if res.DefinitionID != "d1" {
		t.Fatalf("unexpected definition id %q", res.DefinitionID)
	}
	def := store.defs["C1/B1/Q1"]
	if def.OptionTally[0] != 3 || def.OptionTally[1] != 1 {
		t.Fatalf("unexpected tally: %v", def.OptionTally)
	}
}

func TestSubmitResponseSkipsOutOfRangeIndices(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1"}
	store.users["U1"] = &User{ID: "U1"}
	store.defs["C1/B1/Q1"] = &SurveyDefinition{
		ID: "d1", CampaignID: "C1", BrandID: "B1", Question: "Q1",
		QuestionOptions: []string{"A", "B"}, OptionTally: []int{0, 0},
	}
	svc := newTestSurveyService(store)

	res, err := svc.SubmitResponse(SubmitRequest{
		CampaignID: "C1", UserID: "U1", Question: "Q1", SelectedOption: []int{0, 5, -1},
	})
	if err != nil {
		t.Fatalf("out-of-range indices must not reject the submission: %v", err)
	}
	if res.Counted != 1 {
		t.Fatalf("expected 1 counted index, got %d", res.Counted)
	}
	def := store.defs["C1/B1/Q1"]
	if def.OptionTally[0] != 1 || def.OptionTally[1] != 0 {
		t.Fatalf("unexpected tally: %v", def.OptionTally)
	}
	// the raw response keeps the original selection even when some indices
	// were not tallied
	if len(store.appended[0].SelectedOption) != 3 {
		t.Fatalf("raw selection must be stored verbatim: %v", store.appended[0].SelectedOption)
	}
}

func TestSubmitResponseRequiresOptionsForNewQuestion(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1"}
	store.users["U1"] = &User{ID: "U1"}
	svc := newTestSurveyService(store)

	_, err := svc.SubmitResponse(SubmitRequest{
		CampaignID: "C1", UserID: "U1", Question: "Q1", SelectedOption: []int{0},
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestSubmitResponseValidation(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1"}
	store.users["U1"] = &User{ID: "U1"}
	svc := newTestSurveyService(store)

	if _, err := svc.SubmitResponse(SubmitRequest{CampaignID: "C1", UserID: "U1", Question: "   "}); err == nil {
		t.Fatalf("blank question must be rejected")
	}
	if _, err := svc.SubmitResponse(SubmitRequest{CampaignID: "nope", UserID: "U1", Question: "Q1"}); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
	if _, err := svc.SubmitResponse(SubmitRequest{CampaignID: "C1", UserID: "nope", Question: "Q1"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmitResponseClampsNegativeTime(t *testing.T) {
	store := newSurveyStubStore()
	store.campaigns["C1"] = &Campaign{ID: "C1", BrandID: "B1"}
	store.users["U1"] = &User{ID: "U1"}
	svc := newTestSurveyService(store)

	_, err := svc.SubmitResponse(SubmitRequest{
		CampaignID: "C1", UserID: "U1", Question: "Q1",
		QuestionOptions: []string{"A"}, SelectedOption: []int{0}, TimeSpent: -3,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if store.appended[0].TimeSpent != 0 {
		t.Fatalf("negative time must be clamped to 0, got %v", store.appended[0].TimeSpent)
	}
}
