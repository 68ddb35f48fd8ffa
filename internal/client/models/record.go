// Package models defines the client-side data types: translation records,
// the language table and the user profile.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record is one translation kept in a user's history and, when starred, in
// their favorites. The JSON field names match the on-device format.
type Record struct {
	// ID is assigned at creation and never reused.
	ID string `json:"id"`
	// SourceLanguage and TargetLanguage hold canonical language codes.
	SourceLanguage string `json:"from"`
	TargetLanguage string `json:"to"`
	InputText      string `json:"inputText"`
	TranslatedText string `json:"translatedText"`
	// IsFavorite mirrors membership in the favorites collection.
	IsFavorite bool `json:"isFavorite"`
}

// NewRecordID returns a time-ordered (UUIDv7) identifier.
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Normalized returns a copy with both language fields in canonical code form.
func (r Record) Normalized() Record {
	r.SourceLanguage = NormalizeLanguage(r.SourceLanguage)
	r.TargetLanguage = NormalizeLanguage(r.TargetLanguage)
	return r
}

// String renders the record for listings, resolving display names.
func (r Record) String() string {
	star := " "
	if r.IsFavorite {
		star = "*"
	}
	return fmt.Sprintf("%s %s  %s → %s  %s → %s",
		star, r.ID,
		LanguageName(r.SourceLanguage), LanguageName(r.TargetLanguage),
		oneLine(r.InputText), oneLine(r.TranslatedText))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf(records []Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
