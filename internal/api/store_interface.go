package api

import "github.com/boardpulse/boardpulse/internal/services"

// Store is the persistence boundary for the dashboard backend. Its method
// set is a superset of the per-service store interfaces in
// internal/services, so a Store satisfies each of them directly.
type Store interface {
	InsertCampaign(c *services.Campaign) error
	GetCampaign(id string) (*services.Campaign, error)
	ListCampaignsByBrand(brandID string) ([]*services.Campaign, error)
	DeleteCampaign(id string) (bool, error)

	AddUser(u *services.User) error
	GetUser(id string) (*services.User, error)
	ListUsers() ([]*services.User, error)
	AppendResponse(userID string, r services.SurveyResponse) error

	InsertDefinition(d *services.SurveyDefinition) error
	UpdateDefinition(d *services.SurveyDefinition) error
	GetDefinition(campaignID, brandID, question string) (*services.SurveyDefinition, error)
	ListDefinitions(campaignID string) ([]*services.SurveyDefinition, error)

	FindAccountByEmail(email string) (*services.Account, error)
	AddAccount(a *services.Account) error
	AddBrand(b *services.Brand) error

	AddAudit(entry services.AuditEntry)
	ListAudit() []services.AuditEntry
}

var _ Store = (*MemoryStore)(nil)

var (
	_ services.CampaignStore  = (Store)(nil)
	_ services.SurveyStore    = (Store)(nil)
	_ services.AnalyticsStore = (Store)(nil)
	_ services.AuthStore      = (Store)(nil)
)
