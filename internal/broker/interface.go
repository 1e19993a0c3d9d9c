package broker

// ScanActivity is the event published after each successful upload/scan,
// consumed by the admin live activity feed.
type ScanActivity struct {
	Username   string `json:"username"`
	Filename   string `json:"filename"`
	DocumentID uint   `json:"document_id"`
	MatchCount int    `json:"match_count"`
	Timestamp  string `json:"timestamp"`
}

// ActivityBroker fans scan activity out to admin dashboard connections.
type ActivityBroker interface {
	Publish(event ScanActivity) error
	Subscribe() (<-chan ScanActivity, error)
	Close() error
}
