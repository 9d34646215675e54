package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() UserFields {
	return UserFields{
		GivenName:  "Jo",
		FamilyName: "Ng",
		BirthDate:  "2000-01-01",
		Email:      "jo@example.com",
		Address:    "1 Main St",
	}
}

func TestNewUser_Valid(t *testing.T) {
	user, err := NewUser(validFields())
	require.NoError(t, err)

	assert.Equal(t, int64(0), user.ID)
	assert.Equal(t, "Jo", user.GivenName)
	assert.Equal(t, "Ng", user.FamilyName)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), user.BirthDate)
	assert.Equal(t, "jo@example.com", user.Email)
	assert.Equal(t, "1 Main St", user.Address)
}

func TestNewUser_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UserFields)
		field  string
		reason string
	}{
		{"short given name", func(f *UserFields) { f.GivenName = "J" }, "given_name", "must be at least 2 characters"},
		{"short family name", func(f *UserFields) { f.FamilyName = "N" }, "family_name", "must be at least 2 characters"},
		{"short address", func(f *UserFields) { f.Address = "1 Ma" }, "address", "must be at least 5 characters"},
		{"malformed email", func(f *UserFields) { f.Email = "not-an-email" }, "email", "must be a valid email address"},
		{"long email", func(f *UserFields) { f.Email = strings.Repeat("a", 120) + "@example.com" }, "email", "must be at most 128 characters"},
		{"bad date format", func(f *UserFields) { f.BirthDate = "01/02/2000" }, "birth_date", "must be a date in YYYY-MM-DD format"},
		{"impossible date", func(f *UserFields) { f.BirthDate = "2000-02-30" }, "birth_date", "must be a date in YYYY-MM-DD format"},
		{"missing address", func(f *UserFields) { f.Address = "" }, "address", "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(&fields)

			_, err := NewUser(fields)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
			assert.Equal(t, tt.reason, verr.Violations[0].Reason)
		})
	}
}

func TestNewUser_ReportsEveryViolation(t *testing.T) {
	_, err := NewUser(UserFields{GivenName: "J", Email: "nope"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"given_name", "family_name", "birth_date", "email", "address"}, fields)
	assert.Contains(t, err.Error(), "given_name: must be at least 2 characters")
}

func TestNameLengthCountsRunes(t *testing.T) {
	fields := validFields()
	fields.GivenName = "Юя"
	_, err := NewUser(fields)
	assert.NoError(t, err)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 5, 17, 23, 59, 1, 0, time.UTC)
	assert.Equal(t, "2024-05-17", FormatDate(Today(now)))
}
