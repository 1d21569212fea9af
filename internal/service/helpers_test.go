package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventbook/internal/auth"
	"eventbook/internal/domain"
	"eventbook/internal/repository"
	"eventbook/internal/repository/sqlite"
	"eventbook/internal/validation"
)

func str(s string) *string { return &s }

func i64(v int64) *int64 { return &v }

func futureDate(d time.Duration) *string {
	return str(time.Now().UTC().Add(d).Format(time.RFC3339))
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.EventRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	events := sqlite.NewEventRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, events.Init(context.Background()))
	return users, events
}

func newTestServices(t *testing.T) (UserService, EventService, *auth.TokenManager) {
	t.Helper()

	users, events := newTestRepos(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(users, tokens), NewEventService(events, users), tokens
}

func userForm(firstname, lastname, email, password string) validation.UserForm {
	return validation.UserForm{
		Firstname: str(firstname),
		Lastname:  str(lastname),
		Email:     str(email),
		Password:  str(password),
	}
}

func mustCreateUser(t *testing.T, svc UserService, email string) *domain.User {
	t.Helper()

	user, err := svc.Create(context.Background(), userForm("Ana", "Li", email, "longenough"))
	require.NoError(t, err)
	return user
}

func eventForm(title string, userID int64) validation.EventForm {
	return validation.EventForm{
		Title:     str(title),
		StartDate: futureDate(24 * time.Hour),
		EndDate:   futureDate(26 * time.Hour),
		Location:  str("Rotterdam"),
		UserID:    i64(userID),
	}
}

func mustCreateEvent(t *testing.T, svc EventService, title string, userID int64) *domain.Event {
	t.Helper()

	event, err := svc.Create(context.Background(), eventForm(title, userID))
	require.NoError(t, err)
	return event
}
