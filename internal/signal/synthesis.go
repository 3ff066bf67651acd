package signal

// Synthesis is the single prioritized status line produced for one
// candidate from all available evidence. Constructed once per synthesis
// call, never mutated or merged with a prior run.
type Synthesis struct {
	CandidateID       string     `json:"candidate_id"`
	Source            Source     `json:"source"`
	OneLiner          string     `json:"one_liner"`
	Confidence        Confidence `json:"confidence"`
	FlagForReview     bool       `json:"flag_for_review"`
	SupportingContext string     `json:"supporting_context"`
}
