package services

import "testing"

func TestClassifyOption(t *testing.T) {
	cases := []struct {
		text string
		want SentimentLabel
	}{
		{"Yes, definitely", SentimentPositive},
		{"I would recommend it", SentimentPositive},
		{"EXCELLENT", SentimentPositive},
		{"No", SentimentNegative},
		{"Terrible experience", SentimentNegative},
		{"Disappointed", SentimentNegative},
		{"Maybe", SentimentNeutral},
		{"It was okay", SentimentNeutral},
		{"Bananas", SentimentNeutral},
		// positive keywords win over negative ones
		{"No, but I love the design", SentimentPositive},
	}
	for _, c := range cases {
		if got := ClassifyOption(c.text); got != c.want {
			t.Fatalf("ClassifyOption(%q) = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestSentiment(t *testing.T) {
	defs := []*SurveyDefinition{
		{CampaignID: "C1", Question: "Q1", QuestionOptions: []string{"Yes, I love it", "No, I hate it"}},
	}
	responses := []SurveyResponse{
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{0}},
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{1}},
	}
	got := Sentiment(responses, defs)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets (Neutral omitted), got %+v", got)
	}
	if got[0].Label != SentimentPositive || got[0].Count != 1 || got[0].Percentage != 50 {
		t.Fatalf("unexpected positive bucket: %+v", got[0])
	}
	if got[1].Label != SentimentNegative || got[1].Count != 1 || got[1].Percentage != 50 {
		t.Fatalf("unexpected negative bucket: %+v", got[1])
	}
}

func TestSentimentSkipsQuizResponses(t *testing.T) {
	defs := []*SurveyDefinition{
		{CampaignID: "C1", Question: "Q1", QuestionOptions: []string{"Yes", "No"}},
	}
	responses := []SurveyResponse{
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{0}, CorrectOption: []int{0}},
	}
	if got := Sentiment(responses, defs); len(got) != 0 {
		t.Fatalf("quiz responses must not be sentiment-classified, got %+v", got)
	}
}

func TestSentimentSkipsUnknownDefinitions(t *testing.T) {
	responses := []SurveyResponse{
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{0}},
	}
	if got := Sentiment(responses, nil); len(got) != 0 {
		t.Fatalf("responses without a definition must be skipped, got %+v", got)
	}
}

func TestSentimentBucketOrder(t *testing.T) {
	defs := []*SurveyDefinition{
		{CampaignID: "C1", Question: "Q1", QuestionOptions: []string{"Great", "Maybe", "Awful"}},
	}
	responses := []SurveyResponse{
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{2}},
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{1}},
		{CampaignID: "C1", Question: "Q1", SelectedOption: []int{0}},
	}
	got := Sentiment(responses, defs)
	want := []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative}
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %+v", got)
	}
	for i, label := range want {
		if got[i].Label != label {
			t.Fatalf("bucket %d: got %s, want %s", i, got[i].Label, label)
		}
	}
}
