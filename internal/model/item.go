package model

import "time"

// Item represents a published listing. The ID is assigned by the store on
// creation and is immutable afterwards, as are OwnerID and CreatedAt.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	OwnerID     string `json:"userId"`
	CreatedAt   string `json:"date"`
	Status      string `json:"status"`
}

// Item statuses. Rows are never physically deleted; StatusDel marks an item
// as retired and excludes it from listing and detail reads.
const (
	StatusOn  = "on"
	StatusOff = "off"
	StatusDel = "del"
)

// DefaultImage is the placeholder reference for items without a photograph.
const DefaultImage = "assets/generic.png"

// TimeFormat is the stored timestamp layout: seconds precision, no timezone.
const TimeFormat = "2006-01-02 15:04:05"

// ValidStatus reports whether s is one of the three item statuses.
func ValidStatus(s string) bool {
	return s == StatusOn || s == StatusOff || s == StatusDel
}

// FormatTime renders t in the stored timestamp layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}
