package api

import (
	"sort"
	"strings"
	"sync"

	"github.com/boardpulse/boardpulse/internal/services"
)

// MemoryStore is the in-memory Store used for development and tests. All
// reads return copies so callers never share slices with the store.
type MemoryStore struct {
	mu              sync.RWMutex
	campaigns       map[string]*services.Campaign
	users           map[string]*services.User
	userOrder       []string
	defs            map[string]*services.SurveyDefinition
	defsByCampaign  map[string][]string
	brands          map[string]*services.Brand
	accountsByEmail map[string]*services.Account
	audit           []services.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		campaigns:       map[string]*services.Campaign{},
		users:           map[string]*services.User{},
		defs:            map[string]*services.SurveyDefinition{},
		defsByCampaign:  map[string][]string{},
		brands:          map[string]*services.Brand{},
		accountsByEmail: map[string]*services.Account{},
	}
}

func (s *MemoryStore) InsertCampaign(c *services.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *c
	s.campaigns[c.ID] = &copy
	return nil
}

func (s *MemoryStore) GetCampaign(id string) (*services.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.campaigns[id]
	if c == nil {
		return nil, nil
	}
	copy := *c
	return &copy, nil
}

func (s *MemoryStore) ListCampaignsByBrand(brandID string) ([]*services.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Campaign{}
	for _, c := range s.campaigns {
		if c.BrandID == brandID {
			copy := *c
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteCampaign(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return false, nil
	}
	delete(s.campaigns, id)
	for _, defID := range s.defsByCampaign[id] {
		delete(s.defs, defID)
	}
	delete(s.defsByCampaign, id)
	return true, nil
}

func (s *MemoryStore) AddUser(u *services.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.userOrder = append(s.userOrder, u.ID)
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *MemoryStore) GetUser(id string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.users[id]
	if u == nil {
		return nil, nil
	}
	return copyUser(u), nil
}

func (s *MemoryStore) ListUsers() ([]*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, copyUser(s.users[id]))
	}
	return out, nil
}

func (s *MemoryStore) AppendResponse(userID string, r services.SurveyResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	if u == nil {
		return services.ErrUserNotFound
	}
	u.Survey = append(u.Survey, r)
	return nil
}

func (s *MemoryStore) InsertDefinition(d *services.SurveyDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[d.ID] = copyDefinition(d)
	s.defsByCampaign[d.CampaignID] = append(s.defsByCampaign[d.CampaignID], d.ID)
	return nil
}

func (s *MemoryStore) UpdateDefinition(d *services.SurveyDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[d.ID]; !ok {
		return nil
	}
	s.defs[d.ID] = copyDefinition(d)
	return nil
}

func (s *MemoryStore) GetDefinition(campaignID, brandID, question string) (*services.SurveyDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.defsByCampaign[campaignID] {
		d := s.defs[id]
		if d != nil && d.BrandID == brandID && d.Question == question {
			return copyDefinition(d), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListDefinitions(campaignID string) ([]*services.SurveyDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.defsByCampaign[campaignID]
	out := make([]*services.SurveyDefinition, 0, len(ids))
	for _, id := range ids {
		if d := s.defs[id]; d != nil {
			out = append(out, copyDefinition(d))
		}
	}
	return out, nil
}

func (s *MemoryStore) FindAccountByEmail(email string) (*services.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := s.accountsByEmail[strings.ToLower(email)]
	if a == nil {
		return nil, nil
	}
	copy := *a
	return &copy, nil
}

func (s *MemoryStore) AddAccount(a *services.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *a
	s.accountsByEmail[strings.ToLower(a.Email)] = &copy
	return nil
}

func (s *MemoryStore) AddBrand(b *services.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *b
	s.brands[b.ID] = &copy
	return nil
}

func (s *MemoryStore) AddAudit(entry services.AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, entry)
	s.mu.Unlock()
}

func (s *MemoryStore) ListAudit() []services.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func copyUser(u *services.User) *services.User {
	out := *u
	out.Survey = make([]services.SurveyResponse, len(u.Survey))
	for i, r := range u.Survey {
		r.SelectedOption = append([]int(nil), r.SelectedOption...)
		r.CorrectOption = append([]int(nil), r.CorrectOption...)
		out.Survey[i] = r
	}
	return &out
}

func copyDefinition(d *services.SurveyDefinition) *services.SurveyDefinition {
	out := *d
	out.QuestionOptions = append([]string(nil), d.QuestionOptions...)
	out.OptionTally = append([]int(nil), d.OptionTally...)
	return &out
}
