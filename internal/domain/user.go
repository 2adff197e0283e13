package domain

import "time"

// DefaultProduct is assigned to every profile created on first contact.
const DefaultProduct = "Painnoll"

// UserProfile represents a bot user stored in the database. Age, weight and
// height stay nil until the registration flow supplies them.
type UserProfile struct {
	ChatID      int64
	Name        string
	Age         *int
	Weight      *float64
	Height      *float64
	Product     string
	Issue       string
	StartDate   time.Time
	Week        int
	CreatedAt   time.Time
	ConsultMode bool
}

// ProfileField enumerates the columns that may be updated individually.
// Keeping this a closed set avoids string-keyed arbitrary column writes.
type ProfileField string

const (
	FieldAge     ProfileField = "age"
	FieldWeight  ProfileField = "weight"
	FieldHeight  ProfileField = "height"
	FieldIssue   ProfileField = "issue"
	FieldProduct ProfileField = "product"
)

// DoseForWeek returns the recommended capsule count for a program week.
// The first week is an introductory dose; every later week doubles it.
func DoseForWeek(week int) int {
	if week <= 1 {
		return 1
	}
	return 2
}
