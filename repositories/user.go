package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"chat-core/domain"
	"chat-core/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUser(username string) (domain.User, error)
	UpdateUser(user domain.User) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

// diskUser is the stored representation of a user. Keys are "user:{username}"
// so a username resolves with a single point lookup.
type diskUser struct {
	Username     string            `json:"username"`
	DisplayName  string            `json:"display_name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"password_hash"`
	DOB          string            `json:"dob"`
	Permissions  domain.Permission `json:"permissions"`
	CreatedAt    time.Time         `json:"created_at"`
}

func userKey(username string) []byte {
	return []byte("user:" + username)
}

// CreateUser persists a new account. The username is the identity: a second
// create for the same username is rejected rather than overwritten.
func (u UserRepository) CreateUser(user domain.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
}

// GetUser loads an account by username. A banned user (permissions zeroed)
// still resolves; only a missing key maps to ErrUserNotFound.
func (u UserRepository) GetUser(username string) (domain.User, error) {
	var stored diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(stored), nil
}

// UpdateUser replaces the stored record for an existing account. Concurrent
// updates to the same user are last-writer-wins: each badger transaction is
// atomic, but the read that produced the new record is not serialized against
// other writers. Permission zeroing is idempotent, so a lost ban rewrite has
// the same visible effect as the winning one.
func (u UserRepository) UpdateUser(user domain.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Username)
		if _, err := txn.Get(key); err != nil {
			return errors.ErrUserNotFound
		}
		return txn.Set(key, data)
	})
}

// validateUser rejects partial records before they reach the store.
func validateUser(user domain.User) error {
	if user.Username == "" || user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("%w: user record missing required field", errors.ErrMalformedData)
	}
	return nil
}

func fromUser(user domain.User) diskUser {
	return diskUser{
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DOB:          user.DOB,
		Permissions:  user.Permissions,
		CreatedAt:    user.CreatedAt,
	}
}

func toUser(stored diskUser) domain.User {
	return domain.User{
		Username:     stored.Username,
		DisplayName:  stored.DisplayName,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
		DOB:          stored.DOB,
		Permissions:  stored.Permissions,
		CreatedAt:    stored.CreatedAt,
	}
}
