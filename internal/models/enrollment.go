package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/finlink/internal/common"
)

type EnrollmentUser struct {
	ID string `json:"id"`
}

type EnrollmentInfo struct {
	ID          string      `json:"id"`
	Institution Institution `json:"institution"`
}

// Enrollment is the payload of a successful widget session. It is produced
// once and never modified.
type Enrollment struct {
	AccessToken string         `json:"accessToken"`
	User        EnrollmentUser `json:"user"`
	Enrollment  EnrollmentInfo `json:"enrollment"`
	Signatures  []string       `json:"signatures,omitempty"`
	Accounts    []Account      `json:"accounts,omitempty"`
}

// Validate checks the fields every consumer relies on.
func (e *Enrollment) Validate() error {
	if e == nil || strings.TrimSpace(e.AccessToken) == "" {
		return fmt.Errorf("%w: access token is required", common.ErrValidation)
	}
	return nil
}

// EnrollmentReceipt is the gateway's answer to an enrollment notification.
type EnrollmentReceipt struct {
	ID           string `json:"id"`
	EnrollmentID string `json:"enrollmentId"`
	Accounts     int    `json:"accounts"`
	Status       string `json:"status"`
}
