package entity

type Instance struct {
	URI              string        `json:"uri"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Email            string        `json:"email"`
	Version          string        `json:"version"`
	Thumbnail        *string       `json:"thumbnail"`
	StreamingURL     string        `json:"streaming_url"`
	Stats            InstanceStats `json:"stats"`
	Languages        []string      `json:"languages"`
	Registrations    bool          `json:"registrations"`
	ApprovalRequired bool          `json:"approval_required"`
	MaxTootChars     int           `json:"max_toot_chars,omitempty"`
	ContactAccount   *Account      `json:"contact_account,omitempty"`
}

type InstanceStats struct {
	UserCount   int `json:"user_count"`
	StatusCount int `json:"status_count"`
	DomainCount int `json:"domain_count"`
}
