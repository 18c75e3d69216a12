package models

// RecommendationRequest is the body of POST /recommend on the catalog service.
type RecommendationRequest struct {
	UserPrompt string `json:"user_prompt"`
}

// WeatherRecommendationRequest is the body of POST /recommend on the weather service.
// Date is optional, YYYY-MM-DD; empty means today.
type WeatherRecommendationRequest struct {
	UserPrompt string `json:"user_prompt"`
	Location   string `json:"location"`
	Date       string `json:"date,omitempty"`
}

// ReconciliationResult pairs the model's raw text with the catalog products it resolved to.
// Products holds at most five entries in candidate order, misses dropped.
type ReconciliationResult struct {
	RawText  string          `json:"text_recommendations"`
	Products []ProductRecord `json:"products"`
}

// WeatherRecommendationResponse is returned by the weather service.
type WeatherRecommendationResponse struct {
	Recommendations string          `json:"recommendations"`
	Weather         WeatherSnapshot `json:"weather"`
	Season          string          `json:"season"`
	Location        string          `json:"location"`
}

// CandidateOutcome records what the catalog returned for one candidate name.
// Product is nil when the lookup found nothing.
type CandidateOutcome struct {
	Candidate string         `json:"candidate"`
	Product   *ProductRecord `json:"product,omitempty"`
}

func Matched(candidate string, p ProductRecord) CandidateOutcome {
	return CandidateOutcome{Candidate: candidate, Product: &p}
}

func Unmatched(candidate string) CandidateOutcome {
	return CandidateOutcome{Candidate: candidate}
}

func (o CandidateOutcome) IsMatched() bool {
	return o.Product != nil
}
