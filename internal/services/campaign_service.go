package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type CampaignStore interface {
	InsertCampaign(c *Campaign) error
	GetCampaign(id string) (*Campaign, error)
	ListCampaignsByBrand(brandID string) ([]*Campaign, error)
	DeleteCampaign(id string) (bool, error)
	AddAudit(entry AuditEntry)
}

// CampaignService owns campaign CRUD for the dashboard.
type CampaignService struct {
	store CampaignStore
	now   func() time.Time
}

func NewCampaignService(store CampaignStore) *CampaignService {
	return &CampaignService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *CampaignService) Create(brandID, name, vendorID string) (*Campaign, error) {
	if brandID == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidError("name required")
	}
	c := &Campaign{
		ID:        shortID(8),
		Name:      name,
		BrandID:   brandID,
		VendorID:  strings.TrimSpace(vendorID),
		CreatedAt: s.now(),
	}
	if err := s.store.InsertCampaign(c); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: brandID, Action: "create_campaign", Target: c.ID})
	return c, nil
}

func (s *CampaignService) Get(brandID, id string) (*Campaign, error) {
	c, err := s.store.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NewNotFoundError("campaign not found")
	}
	if c.BrandID != brandID {
		return nil, NewForbiddenError("forbidden")
	}
	return c, nil
}

func (s *CampaignService) List(brandID string) ([]*Campaign, error) {
	if brandID == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	return s.store.ListCampaignsByBrand(brandID)
}

func (s *CampaignService) Delete(brandID, id string) error {
	if _, err := s.Get(brandID, id); err != nil {
		return err
	}
	ok, err := s.store.DeleteCampaign(id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("campaign not found")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: brandID, Action: "delete_campaign", Target: id})
	return nil
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
