package models

// SuggestedService is an advisory work recommendation returned by the AI
// suggestion service. It carries no pricing or stock authority.
type SuggestedService struct {
	ServiceName string `json:"serviceName"`
	Reason      string `json:"reason"`
}
