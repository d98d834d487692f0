package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/boardpulse/boardpulse/internal/api"
	"github.com/boardpulse/boardpulse/internal/services"
)

// SQLiteStore persists the dashboard data in a single SQLite file. Option
// lists, tallies and selection sets are stored as JSON columns.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeInts(v []int) string {
	if v == nil {
		v = []int{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeInts(ns sql.NullString) []int {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []int
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode int list: %v", err)
		return nil
	}
	return out
}

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		log.Printf("sqlite store: decode string list: %v", err)
		return nil
	}
	return out
}

func (s *SQLiteStore) InsertCampaign(c *services.Campaign) error {
	_, err := s.db.Exec(
		`INSERT INTO campaigns (id, name, brand_id, vendor_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.BrandID, toNullString(c.VendorID), c.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) GetCampaign(id string) (*services.Campaign, error) {
	row := s.db.QueryRow(`SELECT id, name, brand_id, vendor_id, created_at FROM campaigns WHERE id = ?`, id)
	var c services.Campaign
	var vendor sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.BrandID, &vendor, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.VendorID = vendor.String
	return &c, nil
}

func (s *SQLiteStore) ListCampaignsByBrand(brandID string) ([]*services.Campaign, error) {
	rows, err := s.db.Query(`SELECT id, name, brand_id, vendor_id, created_at FROM campaigns WHERE brand_id = ? ORDER BY id`, brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*services.Campaign{}
	for rows.Next() {
		var c services.Campaign
		var vendor sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.BrandID, &vendor, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.VendorID = vendor.String
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteCampaign(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) AddUser(u *services.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, email, profile_picture) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, profile_picture = excluded.profile_picture`,
		u.ID, u.Name, toNullString(u.Email), toNullString(u.ProfilePicture),
	)
	return err
}

func (s *SQLiteStore) GetUser(id string) (*services.User, error) {
	row := s.db.QueryRow(`SELECT id, name, email, profile_picture FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	responses, err := s.listResponsesByUser(id)
	if err != nil {
		return nil, err
	}
	u.Survey = responses
	return u, nil
}

func (s *SQLiteStore) ListUsers() ([]*services.User, error) {
	rows, err := s.db.Query(`SELECT id, name, email, profile_picture FROM users ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*services.User{}
	index := map[string]*services.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
		index[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	respRows, err := s.db.Query(
		`SELECT user_id, campaign_id, question, selected_option, correct_option, time_spent, submitted_at
		 FROM survey_responses ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer respRows.Close()
	for respRows.Next() {
		var userID string
		r, err := scanResponse(respRows, &userID)
		if err != nil {
			return nil, err
		}
		if u := index[userID]; u != nil {
			u.Survey = append(u.Survey, r)
		}
	}
	return out, respRows.Err()
}

func (s *SQLiteStore) AppendResponse(userID string, r services.SurveyResponse) error {
	_, err := s.db.Exec(
		`INSERT INTO survey_responses (user_id, campaign_id, question, selected_option, correct_option, time_spent, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, r.CampaignID, r.Question, encodeInts(r.SelectedOption), toNullString(encodeOptionalInts(r.CorrectOption)), r.TimeSpent, r.SubmittedAt,
	)
	return err
}

func (s *SQLiteStore) InsertDefinition(d *services.SurveyDefinition) error {
	_, err := s.db.Exec(
		`INSERT INTO survey_definitions (id, campaign_id, brand_id, vendor_id, question, question_options, option_tally, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CampaignID, d.BrandID, toNullString(d.VendorID), d.Question, encodeStrings(d.QuestionOptions), encodeInts(d.OptionTally), d.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) UpdateDefinition(d *services.SurveyDefinition) error {
	_, err := s.db.Exec(`UPDATE survey_definitions SET option_tally = ? WHERE id = ?`, encodeInts(d.OptionTally), d.ID)
	return err
}

func (s *SQLiteStore) GetDefinition(campaignID, brandID, question string) (*services.SurveyDefinition, error) {
	row := s.db.QueryRow(
		`SELECT id, campaign_id, brand_id, vendor_id, question, question_options, option_tally, created_at
		 FROM survey_definitions WHERE campaign_id = ? AND brand_id = ? AND question = ?`,
		campaignID, brandID, question,
	)
	d, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (s *SQLiteStore) ListDefinitions(campaignID string) ([]*services.SurveyDefinition, error) {
	rows, err := s.db.Query(
		`SELECT id, campaign_id, brand_id, vendor_id, question, question_options, option_tally, created_at
		 FROM survey_definitions WHERE campaign_id = ? ORDER BY created_at, id`,
		campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*services.SurveyDefinition{}
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FindAccountByEmail(email string) (*services.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, email, pass_hash, brand_id, created_at FROM accounts WHERE email = ? COLLATE NOCASE`,
		email,
	)
	var a services.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PassHash, &a.BrandID, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *SQLiteStore) AddAccount(a *services.Account) error {
	_, err := s.db.Exec(
		`INSERT INTO accounts (id, email, pass_hash, brand_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PassHash, a.BrandID, a.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) AddBrand(b *services.Brand) error {
	_, err := s.db.Exec(`INSERT INTO brands (id, name) VALUES (?, ?)`, b.ID, b.Name)
	return err
}

func (s *SQLiteStore) AddAudit(entry services.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (at, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		entry.Time, toNullString(entry.Actor), entry.Action, toNullString(entry.Target), toNullString(entry.Note),
	)
	if err != nil {
		log.Printf("sqlite store: add audit: %v", err)
	}
}

func (s *SQLiteStore) ListAudit() []services.AuditEntry {
	rows, err := s.db.Query(`SELECT at, actor, action, target, note FROM audit_log ORDER BY at`)
	if err != nil {
		log.Printf("sqlite store: list audit: %v", err)
		return nil
	}
	defer rows.Close()
	out := []services.AuditEntry{}
	for rows.Next() {
		var e services.AuditEntry
		var actor, target, note sql.NullString
		if err := rows.Scan(&e.Time, &actor, &e.Action, &target, &note); err != nil {
			log.Printf("sqlite store: scan audit: %v", err)
			return out
		}
		e.Actor, e.Target, e.Note = actor.String, target.String, note.String
		out = append(out, e)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*services.User, error) {
	var u services.User
	var email, picture sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &email, &picture); err != nil {
		return nil, err
	}
	u.Email = email.String
	u.ProfilePicture = picture.String
	return &u, nil
}

func scanDefinition(row rowScanner) (*services.SurveyDefinition, error) {
	var d services.SurveyDefinition
	var vendor sql.NullString
	var options, tally string
	if err := row.Scan(&d.ID, &d.CampaignID, &d.BrandID, &vendor, &d.Question, &options, &tally, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.VendorID = vendor.String
	d.QuestionOptions = decodeStrings(options)
	d.OptionTally = decodeInts(sql.NullString{String: tally, Valid: true})
	if d.OptionTally == nil {
		d.OptionTally = make([]int, len(d.QuestionOptions))
	}
	return &d, nil
}

func scanResponse(row rowScanner, userID *string) (services.SurveyResponse, error) {
	var r services.SurveyResponse
	var selected string
	var correct sql.NullString
	if err := row.Scan(userID, &r.CampaignID, &r.Question, &selected, &correct, &r.TimeSpent, &r.SubmittedAt); err != nil {
		return r, err
	}
	r.SelectedOption = decodeInts(sql.NullString{String: selected, Valid: true})
	r.CorrectOption = decodeInts(correct)
	return r, nil
}

func encodeOptionalInts(v []int) string {
	if len(v) == 0 {
		return ""
	}
	return encodeInts(v)
}

func (s *SQLiteStore) listResponsesByUser(userID string) ([]services.SurveyResponse, error) {
	rows, err := s.db.Query(
		`SELECT user_id, campaign_id, question, selected_option, correct_option, time_spent, submitted_at
		 FROM survey_responses WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []services.SurveyResponse{}
	for rows.Next() {
		var uid string
		r, err := scanResponse(rows, &uid)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
