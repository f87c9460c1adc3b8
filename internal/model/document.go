package model

// DocumentType identifies what kind of document is submitted for analysis.
type DocumentType string

const (
	// DocumentStatement is a monthly card statement.
	DocumentStatement DocumentType = "STATEMENT"
	// DocumentCardTerms is a card terms-and-conditions brochure.
	DocumentCardTerms DocumentType = "CARD_TNC"
)

// JobStatus is the processing state of a submitted document analysis job.
type JobStatus string

const (
	// JobSubmitted means the backend accepted the document.
	JobSubmitted JobStatus = "SUBMITTED"
	// JobProcessing means analysis is underway.
	JobProcessing JobStatus = "PROCESSING"
	// JobCompleted is a terminal success state.
	JobCompleted JobStatus = "COMPLETED"
	// JobFailed is a terminal failure state.
	JobFailed JobStatus = "FAILED"
	// JobTimedOut means the client's polling budget ran out before the
	// backend reported a terminal state. The true backend status remains
	// unresolved; no further automatic polling happens.
	JobTimedOut JobStatus = "TIMED_OUT"
)

// Terminal reports whether the status permanently stops polling on the
// backend's say-so. TIMED_OUT is a soft stop and intentionally not included.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// DocumentJob tracks one submitted document analysis.
type DocumentJob struct {
	DocumentID string    `json:"documentId"`
	CardID     int64     `json:"cardId,omitempty"`
	Status     JobStatus `json:"status"`
	AISummary  string    `json:"aiSummary,omitempty"`
}

// ExtractedRule is one reward rule the backend pulled out of an analyzed
// document.
type ExtractedRule struct {
	CardName   string  `json:"cardName"`
	Category   string  `json:"category"`
	RewardType string  `json:"rewardType"`
	Conditions string  `json:"conditions,omitempty"`
	RewardRate float64 `json:"rewardRate"`
}
