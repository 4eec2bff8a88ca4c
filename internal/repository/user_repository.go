package repository

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/domain"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/storage/kv"
)

// KVUserRepository keeps accounts under user/{email}.
type KVUserRepository struct {
	store kv.Store
	locks *keyedMutex
}

func NewKVUserRepository(store kv.Store) *KVUserRepository {
	return &KVUserRepository{store: store, locks: newKeyedMutex()}
}

func (r *KVUserRepository) Create(ctx context.Context, u user.User) error {
	key := ownerKey(u.Email)
	if key == "" {
		return domain.NewValidationError("email", "email is required")
	}
	unlock := r.locks.Lock(key)
	defer unlock()

	exists, err := r.ExistsByEmail(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrAlreadyExists
	}
	u.Email = key
	u.Name = strings.TrimSpace(u.Name)
	if err := kv.PutJSON(ctx, r.store, kv.NamespaceUser, key, u); err != nil {
		return &domain.PersistenceError{Op: "create user", Cause: err}
	}
	return nil
}

func (r *KVUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	key := ownerKey(email)
	if key == "" {
		return user.User{}, user.ErrNotFound
	}
	var u user.User
	found, err := kv.GetJSON(ctx, r.store, kv.NamespaceUser, key, &u)
	if err != nil {
		return user.User{}, &domain.PersistenceError{Op: "load user", Cause: err}
	}
	if !found {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *KVUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Update rewrites an existing account. The email is the key and cannot change.
func (r *KVUserRepository) Update(ctx context.Context, u user.User) error {
	key := ownerKey(u.Email)
	if key == "" {
		return domain.NewValidationError("email", "email is required")
	}
	unlock := r.locks.Lock(key)
	defer unlock()

	if _, err := r.GetByEmail(ctx, key); err != nil {
		return err
	}
	u.Email = key
	u.Name = strings.TrimSpace(u.Name)
	if err := kv.PutJSON(ctx, r.store, kv.NamespaceUser, key, u); err != nil {
		return &domain.PersistenceError{Op: "update user", Cause: err}
	}
	return nil
}
