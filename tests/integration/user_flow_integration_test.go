//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("BOARDPULSE_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestSurveyJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	brandEmail := fmt.Sprintf("integration_%d@example.com", time.Now().UnixNano())
	password := "Secret123!"

	var registerResp struct {
		Token   string `json:"token"`
		BrandID string `json:"brand_id"`
	}
	doPost(t, client, base+"/api/auth/register", "", map[string]any{
		"email":     brandEmail,
		"password":  password,
		"brandName": fmt.Sprintf("Brand %d", time.Now().UnixNano()),
	}, &registerResp)
	if registerResp.Token == "" || registerResp.BrandID == "" {
		t.Fatalf("unexpected register response: %+v", registerResp)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/auth/login", "", map[string]string{
		"email":    brandEmail,
		"password": password,
	}, &loginResp)
	token := loginResp.Token
	if token == "" {
		t.Fatalf("login did not return token")
	}

	var campaignResp struct {
		ID string `json:"id"`
	}
	doPost(t, client, base+"/api/campaigns", token, map[string]any{
		"name": "Integration Campaign",
	}, &campaignResp)
	if campaignResp.ID == "" {
		t.Fatalf("expected campaign id in response")
	}

	var userResp struct {
		ID string `json:"id"`
	}
	doPost(t, client, base+"/api/users", "", map[string]any{
		"name":  "Integration Respondent",
		"email": fmt.Sprintf("respondent_%d@example.com", time.Now().UnixNano()),
	}, &userResp)
	if userResp.ID == "" {
		t.Fatalf("expected user id in response")
	}

	var submitResp struct {
		OK          bool `json:"ok"`
		Counted     int  `json:"counted"`
		NewQuestion bool `json:"new_question"`
	}
	doPost(t, client, base+"/api/responses", "", map[string]any{
		"campaign_id":      campaignResp.ID,
		"user_id":          userResp.ID,
		"question":         "Rate the billboard",
		"question_options": []string{"Love it", "Okay", "Hate it"},
		"selected_option":  []int{0},
		"time_spent":       6.5,
	}, &submitResp)
	if !submitResp.OK || submitResp.Counted != 1 || !submitResp.NewQuestion {
		t.Fatalf("unexpected submit response: %+v", submitResp)
	}

	summary := doGet(t, client, base+"/api/campaigns/"+campaignResp.ID+"/summary", token)
	var summaryResp struct {
		Questions []struct {
			Question       string `json:"question"`
			TotalResponses int    `json:"total_responses"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(summary, &summaryResp); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summaryResp.Questions) != 1 || summaryResp.Questions[0].TotalResponses != 1 {
		t.Fatalf("unexpected summary: %s", summary)
	}

	exportURL := fmt.Sprintf("%s/api/export?campaign_id=%s", base, campaignResp.ID)
	csvContent := string(doGet(t, client, exportURL, token))
	if !strings.Contains(csvContent, "Rate the billboard") {
		t.Fatalf("export csv did not contain the question; csv=%s", csvContent)
	}
	if !strings.Contains(csvContent, "Love it,1,100") {
		t.Fatalf("export csv did not contain the tallied option; csv=%s", csvContent)
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url, token string) []byte {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response from %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(body))
	}
	return body
}
