package entity

import "time"

// DetectionRecord is one screen recording check served over the bridge.
type DetectionRecord struct {
	ID             int64
	CheckID        string
	CheckedAt      time.Time
	Recording      bool
	MatchedProcess string
	Keyword        string
	Policy         string
}
