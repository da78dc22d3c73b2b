package enrollments

import "time"

// Record is one stored enrollment. The access token itself is never kept,
// only its fingerprint.
type Record struct {
	ID               string
	EnrollmentID     string
	UserID           string
	InstitutionID    string
	InstitutionName  string
	TokenFingerprint string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AccountRecord struct {
	AccountID string
	Name      string
	Type      string
	Subtype   string
	LastFour  string
	Currency  string
}
