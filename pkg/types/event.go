package types

// Event is a calendar event row. Date is an ISO calendar date
// (YYYY-MM-DD); Time is HH:MM or the empty string for "no specific
// time". The triple (Title, Date, Time) is unique in the store.
type Event struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Completed bool   `json:"completed"`
}

// HasTime reports whether the event carries a specific time of day.
func (e Event) HasTime() bool {
	return e.Time != ""
}
