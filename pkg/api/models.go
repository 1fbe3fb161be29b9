package api

import "moderation/pkg/censor"

// TextRequest carries text of any JSON type. Values that are not strings
// are treated as clean input and echoed back unchanged by transforms.
type TextRequest struct {
	Text any `json:"text"`
}

type TermsRequest struct {
	Terms []string `json:"terms"`
}

type DetectResponse struct {
	censor.Result
	Suggestions []censor.Suggestion `json:"suggestions"`
}

type ContainsResponse struct {
	Contains bool `json:"contains"`
}

type MatchesResponse struct {
	Matches []string `json:"matches"`
}

type TextResponse struct {
	Text any `json:"text"`
}

type SeverityResponse struct {
	Severity censor.Level `json:"severity"`
}
