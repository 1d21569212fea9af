package domain

import "time"

// Event represents a scheduled event owned by a user.
type Event struct {
	ID          int64
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	UserID      int64

	// Owner identity, joined on every read.
	OwnerFirstname string
	OwnerLastname  string
	OwnerEmail     string
}

// EventPatch carries the fields of a partial event update. A nil field was
// not supplied and is left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	UserID      *int64
}

// Empty reports whether the patch touches no fields.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil &&
		p.EndDate == nil && p.Location == nil && p.UserID == nil
}

// SortColumn enumerates the event columns a listing may be ordered by.
// Values outside this set never reach the store.
type SortColumn string

const (
	SortByID        SortColumn = "id"
	SortByTitle     SortColumn = "title"
	SortByStartDate SortColumn = "start_date"
	SortByEndDate   SortColumn = "end_date"
	SortByLocation  SortColumn = "location"
	SortByUserID    SortColumn = "user_id"
)

// SortOrder is the listing direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// ListQuery is the validated shape of an event listing request.
type ListQuery struct {
	Limit  int
	Offset int
	Sort   SortColumn
	Order  SortOrder
	// Search, when non-empty, filters events whose title, description or
	// location contains the term.
	Search string
}

// ListResult pairs a page of events with its pagination envelope.
type ListResult struct {
	Events []Event
	Limit  int
	Offset int
	Total  int
}
