package repositories

import (
	"testing"
	"time"

	"chat-core/domain"
	"chat-core/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testUser(username string) domain.User {
	return domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$stub",
		Permissions:  domain.DefaultPermissions,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created := testUser("alice")
	created.DisplayName = "Alice"
	req.NoError(repository.CreateUser(created))

	fetched, err := repository.GetUser("alice")
	req.NoError(err)
	req.Equal(created, fetched)
}

func TestUserRepository_DuplicateUsernameIsRejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	req.NoError(repository.CreateUser(testUser("alice")))
	req.ErrorIs(repository.CreateUser(testUser("alice")), errors.ErrUserAlreadyExists)
}

func TestUserRepository_GetMissingUser(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUser("ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_UpdatePersistsPermissionChange(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	user := testUser("alice")
	req.NoError(repository.CreateUser(user))

	user.Permissions = domain.PermNone
	req.NoError(repository.UpdateUser(user))

	// A banned user still resolves, with every capability gone.
	fetched, err := repository.GetUser("alice")
	req.NoError(err)
	req.Equal(domain.PermNone, fetched.Permissions)
	req.False(fetched.Permissions.Has(domain.PermSend))
}

func TestUserRepository_UpdateMissingUser(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	req.ErrorIs(repository.UpdateUser(testUser("ghost")), errors.ErrUserNotFound)
}

func TestUserRepository_MalformedRecordsAreRejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	missingEmail := testUser("alice")
	missingEmail.Email = ""
	req.ErrorIs(repository.CreateUser(missingEmail), errors.ErrMalformedData)

	missingHash := testUser("bob")
	missingHash.PasswordHash = ""
	req.ErrorIs(repository.CreateUser(missingHash), errors.ErrMalformedData)

	req.ErrorIs(repository.UpdateUser(domain.User{Username: "alice"}), errors.ErrMalformedData)
}
