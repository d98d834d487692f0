package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/boardpulse/boardpulse/internal/middleware"
	"github.com/boardpulse/boardpulse/internal/services"
)

type Router struct {
	store     Store
	auth      *services.AuthService
	campaigns *services.CampaignService
	surveys   *services.SurveyService
	analytics *services.AnalyticsService
}

func NewRouter(store Store) *Router {
	return &Router{
		store:     store,
		auth:      services.NewAuthService(store, middleware.SignToken),
		campaigns: services.NewCampaignService(store),
		surveys:   services.NewSurveyService(store),
		analytics: services.NewAnalyticsService(store),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/campaigns", rt.handleCampaigns)    // POST, GET
	mux.HandleFunc("/api/campaigns/", rt.handleCampaignScoped)
	mux.HandleFunc("/api/users", rt.handleUsers)         // POST
	mux.HandleFunc("/api/responses", rt.handleResponses) // POST
	mux.HandleFunc("/api/export", rt.handleExport)       // GET
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrCampaignNotFound) || errors.Is(err, services.ErrUserNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
		http.Error(w, se.Message, status)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// POST /api/auth/register — create a brand and its first account
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		BrandName string `json:"brandName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.BrandName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "brand_id": res.BrandID, "account_id": res.AccountID})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "brand_id": res.BrandID, "account_id": res.AccountID})
}

// POST /api/campaigns — create; GET /api/campaigns — list for the brand
func (rt *Router) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	brandID, ok := middleware.BrandIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Name     string `json:"name"`
			VendorID string `json:"vendor_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := rt.campaigns.Create(brandID, req.Name, req.VendorID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, c)
	case http.MethodGet:
		cs, err := rt.campaigns.List(brandID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, cs)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/campaigns/{id}
// GET /api/campaigns/{id}/summary
// GET /api/campaigns/{id}/respondents?question=...&q=...
// DELETE /api/campaigns/{id}
func (rt *Router) handleCampaignScoped(w http.ResponseWriter, r *http.Request) {
	brandID, ok := middleware.BrandIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/campaigns/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			c, err := rt.campaigns.Get(brandID, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, c)
		case http.MethodDelete:
			if err := rt.campaigns.Delete(brandID, id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, map[string]any{"ok": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch parts[1] {
	case "summary":
		summary, err := rt.analytics.Summary(brandID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, summary)
	case "respondents":
		question := r.URL.Query().Get("question")
		if question == "" {
			http.Error(w, "question required", http.StatusBadRequest)
			return
		}
		users, err := rt.analytics.Respondents(brandID, id, question, r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		type respondent struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Email          string `json:"email,omitempty"`
			ProfilePicture string `json:"profile_picture,omitempty"`
		}
		out := make([]respondent, 0, len(users))
		for _, u := range users {
			out = append(out, respondent{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePicture: u.ProfilePicture})
		}
		writeJSON(w, map[string]any{"question": question, "respondents": out})
	default:
		http.NotFound(w, r)
	}
}

// POST /api/users — register a respondent
func (rt *Router) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var u services.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(u.Name) == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if u.ID == "" {
		u.ID = newID(12)
	}
	u.Survey = nil
	if err := rt.store.AddUser(&u); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, u)
}

// POST /api/responses — submit one answer
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CampaignID      string   `json:"campaign_id"`
		UserID          string   `json:"user_id"`
		Question        string   `json:"question"`
		QuestionOptions []string `json:"question_options"`
		SelectedOption  []int    `json:"selected_option"`
		CorrectOption   []int    `json:"correct_option"`
		TimeSpent       float64  `json:"time_spent"`
		VendorID        string   `json:"vendor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.surveys.SubmitResponse(services.SubmitRequest{
		CampaignID:      req.CampaignID,
		UserID:          req.UserID,
		Question:        req.Question,
		QuestionOptions: req.QuestionOptions,
		SelectedOption:  req.SelectedOption,
		CorrectOption:   req.CorrectOption,
		TimeSpent:       req.TimeSpent,
		VendorID:        req.VendorID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "definition_id": res.DefinitionID, "counted": res.Counted, "new_question": res.NewQuestion})
}

// GET /api/export?campaign_id=...
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	brandID, ok := middleware.BrandIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	campaignID := r.URL.Query().Get("campaign_id")
	if campaignID == "" {
		http.Error(w, "campaign_id required", http.StatusBadRequest)
		return
	}
	b, err := rt.analytics.ExportCSV(brandID, campaignID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=survey.csv")
	_, _ = w.Write(b)
}
