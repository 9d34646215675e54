package domain

import "time"

// DateLayout is the wire and storage format of a birth date.
const DateLayout = "2006-01-02"

// User represents a single record of the user directory.
type User struct {
	ID         int64
	GivenName  string
	FamilyName string
	BirthDate  time.Time
	Email      string
	Address    string
}

// UserFields carries the client-supplied attributes of a user, before validation.
type UserFields struct {
	GivenName  string `json:"given_name" validate:"required,min=2"`
	FamilyName string `json:"family_name" validate:"required,min=2"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Email      string `json:"email" validate:"required,max=128,email"`
	Address    string `json:"address" validate:"required,min=5"`
}

// NewUser validates fields and builds an unsaved User from them.
func NewUser(fields UserFields) (*User, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	birthDate, err := ParseDate(fields.BirthDate)
	if err != nil {
		return nil, NewValidationError("birth_date", "must be a date in YYYY-MM-DD format")
	}
	return &User{
		GivenName:  fields.GivenName,
		FamilyName: fields.FamilyName,
		BirthDate:  birthDate,
		Email:      fields.Email,
		Address:    fields.Address,
	}, nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today truncates now to the calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
