package user

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"
	"job-tracker/internal/storage/kv"
	"job-tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*Service, *repository.KVUserRepository, usecase.Identity) {
	t.Helper()
	repo := repository.NewKVUserRepository(kv.NewMemory())
	u := user.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), u))

	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo, usecase.Identity{UserID: u.ID, Email: "Jane@Example.com"}
}

func TestGetMe_HidesPasswordHash(t *testing.T) {
	svc, _, id := newService(t)

	u, err := svc.GetMe(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.Empty(t, u.PasswordHash)
}

func TestGetMe_UnknownAccount(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetMe(context.Background(), usecase.Identity{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMe_NameAndPassword(t *testing.T) {
	svc, repo, id := newService(t)
	name, pw := "Jane Doe", "new-password"

	u, err := svc.UpdateMe(context.Background(), id, UpdateMeInput{Name: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.Name)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), u.UpdatedAt)

	stored, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(pw)))
}

func TestUpdateMe_RejectsInvalidInput(t *testing.T) {
	svc, _, id := newService(t)
	blank, short := "  ", "short"

	_, err := svc.UpdateMe(context.Background(), id, UpdateMeInput{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateMe(context.Background(), id, UpdateMeInput{Password: &short})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
