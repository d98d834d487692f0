package services

import "time"

// User is a platform respondent. The engine reads users and their embedded
// survey responses; it never mutates them.
type User struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email,omitempty"`
	ProfilePicture string           `json:"profile_picture,omitempty"`
	Survey         []SurveyResponse `json:"survey,omitempty"`
}

// SurveyResponse is one user's answer to one question. A non-empty
// CorrectOption marks the response as quiz-scored; TimeSpent <= 0 means the
// duration is unknown and is excluded from timing aggregates.
type SurveyResponse struct {
	CampaignID     string    `json:"campaign_id"`
	Question       string    `json:"question"`
	SelectedOption []int     `json:"selected_option"`
	CorrectOption  []int     `json:"correct_option,omitempty"`
	TimeSpent      float64   `json:"time_spent,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SurveyDefinition holds a question, its options and the running per-option
// tally for a campaign. It is created the first time any user answers the
// question and its tally is incremented on every subsequent answer.
type SurveyDefinition struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	QuestionOptions []string  `json:"question_options"`
	OptionTally     []int     `json:"option_tally"`
	VendorID        string    `json:"vendor_id,omitempty"`
	CampaignID      string    `json:"campaign_id"`
	BrandID         string    `json:"brand_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Campaign is an out-of-home advertising campaign owned by a brand.
type Campaign struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BrandID   string    `json:"brand_id"`
	VendorID  string    `json:"vendor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Brand is the advertiser a dashboard account belongs to.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is a dashboard login for a brand.
type Account struct {
	ID        string
	Email     string
	PassHash  []byte
	BrandID   string
	CreatedAt time.Time
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
