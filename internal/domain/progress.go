package domain

import (
	"strings"
	"time"
)

// Reminder labels. The three slot labels are embedded into every reminder text
// and read back to attribute a button tap to its slot; LabelAdHoc covers
// deferred reminders whose text no longer names a slot.
const (
	LabelMorning = "Ertalab"
	LabelMidday  = "Tushlik"
	LabelEvening = "Kechqurun"
	LabelAdHoc   = "Eslatma"
)

// Slot is one of the three fixed daily reminder times.
type Slot struct {
	Hour  int
	Label string
}

// Slots lists the daily reminder slots in firing order.
var Slots = []Slot{
	{Hour: 8, Label: LabelMorning},
	{Hour: 13, Label: LabelMidday},
	{Hour: 19, Label: LabelEvening},
}

// LabelFromText recovers the reminder label from a previously sent
// notification body. Unknown texts map to the ad-hoc label.
func LabelFromText(text string) string {
	for _, slot := range Slots {
		if strings.Contains(text, slot.Label) {
			return slot.Label
		}
	}
	return LabelAdHoc
}

// ProgressEvent is one append-only record of a reminder outcome.
type ProgressEvent struct {
	ID     int64
	ChatID int64
	Date   time.Time
	Label  string
	Done   bool
}
