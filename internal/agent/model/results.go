package model

// SearchResult is returned by a successful natural-language search parse.
type SearchResult struct {
	Filters SearchFilters `json:"filters"`
	Usage   UsageReport   `json:"usage"`
}

// AnswerResult is returned by a successful property question.
type AnswerResult struct {
	Answer string      `json:"answer"`
	Usage  UsageReport `json:"usage"`
}

// ChatResult is returned by a successful chat round trip.
type ChatResult struct {
	SessionID string      `json:"session_id"`
	Response  string      `json:"response"`
	Usage     UsageReport `json:"usage"`
	// Totals is the running session tally after this call.
	Totals Tally `json:"totals"`
}
