package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventbook/internal/domain"
	"eventbook/internal/repository"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	location TEXT NOT NULL,
	user_id INTEGER NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const selectEvent = `
SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.location, e.user_id,
       u.firstname, u.lastname, u.email
FROM events e
LEFT JOIN users u ON e.user_id = u.id`

const searchFilter = `(e.title LIKE ? OR e.description LIKE ? OR e.location LIKE ?)`

// sortColumns maps the validated sort enumeration to column literals. Only
// these fixed strings are ever interpolated into query text.
var sortColumns = map[domain.SortColumn]string{
	domain.SortByID:        "e.id",
	domain.SortByTitle:     "e.title",
	domain.SortByStartDate: "e.start_date",
	domain.SortByEndDate:   "e.end_date",
	domain.SortByLocation:  "e.location",
	domain.SortByUserID:    "e.user_id",
}

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO events (title, description, start_date, end_date, location, user_id)
VALUES (?, ?, ?, ?, ?, ?)`,
		event.Title,
		nullableString(event.Description),
		event.StartDate,
		event.EndDate,
		event.Location,
		event.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event last insert id: %w", err)
	}
	event.ID = id
	return id, nil
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, selectEvent+` WHERE e.id = ?`, id)
	return scanEvent(row)
}

func (r *EventRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Event, int, error) {
	column, ok := sortColumns[q.Sort]
	if !ok {
		column = sortColumns[domain.SortByStartDate]
	}
	direction := "ASC"
	if q.Order == domain.OrderDesc {
		direction = "DESC"
	}

	query := selectEvent
	var args []any
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query += " WHERE " + searchFilter
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY " + column + " " + direction + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	events, err := r.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM events e`
	var countArgs []any
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		countQuery += " WHERE " + searchFilter
		countArgs = append(countArgs, pattern, pattern, pattern)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	return events, total, nil
}

func (r *EventRepository) Search(ctx context.Context, term string) ([]domain.Event, error) {
	pattern := "%" + term + "%"
	return r.queryEvents(ctx,
		selectEvent+" WHERE "+searchFilter+" ORDER BY e.start_date ASC",
		pattern, pattern, pattern,
	)
}

func (r *EventRepository) Update(ctx context.Context, id int64, patch domain.EventPatch) error {
	// Column names come from this fixed list only; user input never
	// reaches the statement text.
	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, *patch.StartDate)
	}
	if patch.EndDate != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, *patch.EndDate)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.UserID != nil {
		sets = append(sets, "user_id = ?")
		args = append(args, *patch.UserID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE events SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireRowsAffected(res, "update event")
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireRowsAffected(res, "delete event")
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(row interface {
	Scan(dest ...any) error
}) (*domain.Event, error) {
	var (
		event       domain.Event
		description sql.NullString
		firstname   sql.NullString
		lastname    sql.NullString
		email       sql.NullString
	)
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&description,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.UserID,
		&firstname,
		&lastname,
		&email,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	if description.Valid {
		event.Description = &description.String
	}
	event.OwnerFirstname = firstname.String
	event.OwnerLastname = lastname.String
	event.OwnerEmail = email.String
	event.StartDate = event.StartDate.UTC()
	event.EndDate = event.EndDate.UTC()
	return &event, nil
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
