package models

import (
	"errors"
	"strings"
)

var ErrIncompleteProfile = errors.New("full name and email are required")

// Profile is the personal data shown on the settings screen. It lives in the
// secure store.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" || strings.TrimSpace(p.Email) == "" {
		return ErrIncompleteProfile
	}
	return nil
}
