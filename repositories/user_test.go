package repositories

import (
	"testing"
	"time"

	"team-chat/domain"
	"team-chat/errors"

	"github.com/google/uuid"
	db "github.com/mama165/sdk-go/database"
	"github.com/stretchr/testify/require"
)

func newUser(username, email string) domain.User {
	return domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$fake",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)

	user := newUser("alice", "alice@example.com")
	req.NoError(repo.CreateUser(ctx, user))

	fetched, err := repo.GetUserByEmail(ctx, "alice@example.com")
	req.NoError(err)
	req.Equal(user.ID, fetched.ID)
	req.Equal("alice", fetched.Username)

	byID, err := repo.GetUserByID(ctx, user.ID)
	req.NoError(err)
	req.Equal(user.Email, byID.Email)
}

func TestUserRepository_Uniqueness(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)
	req.NoError(repo.CreateUser(ctx, newUser("alice", "alice@example.com")))

	t.Run("should reject duplicate email", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("bob", "alice@example.com"))
		require.ErrorIs(t, err, errors.ErrEmailTaken)
	})

	t.Run("should reject duplicate username", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("alice", "other@example.com"))
		require.ErrorIs(t, err, errors.ErrUsernameTaken)
	})

	t.Run("should reject duplicate email with different case", func(t *testing.T) {
		err := repo.CreateUser(ctx, newUser("carol", "ALICE@example.com"))
		require.ErrorIs(t, err, errors.ErrEmailTaken)
	})
}

func TestUserRepository_Update(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)

	user := newUser("alice", "alice@example.com")
	req.NoError(repo.CreateUser(ctx, user))
	req.NoError(repo.CreateUser(ctx, newUser("bob", "bob@example.com")))

	t.Run("should rename and free the old username", func(t *testing.T) {
		req := require.New(t)
		user.Username = "alice2"
		req.NoError(repo.UpdateUser(ctx, user))

		fetched, err := repo.GetUserByID(ctx, user.ID)
		req.NoError(err)
		req.Equal("alice2", fetched.Username)

		// The old username is available again.
		req.NoError(repo.CreateUser(ctx, newUser("alice", "second@example.com")))
	})

	t.Run("should reject an update to a taken username", func(t *testing.T) {
		user.Username = "bob"
		err := repo.UpdateUser(ctx, user)
		require.ErrorIs(t, err, errors.ErrUsernameTaken)
	})

	t.Run("should fail for an unknown user", func(t *testing.T) {
		err := repo.UpdateUser(ctx, newUser("ghost", "ghost@example.com"))
		require.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)

	user := newUser("alice", "alice@example.com")
	req.NoError(repo.CreateUser(ctx, user))
	req.NoError(repo.DeleteUser(ctx, user.ID))

	_, err = repo.GetUserByID(ctx, user.ID)
	req.ErrorIs(err, errors.ErrUserNotFound)

	// Email and username are released by the deletion.
	req.NoError(repo.CreateUser(ctx, newUser("alice", "alice@example.com")))
}

func TestUserRepository_TouchActivity(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)

	user := newUser("alice", "alice@example.com")
	req.NoError(repo.CreateUser(ctx, user))

	before, err := repo.GetUserByID(ctx, user.ID)
	req.NoError(err)
	req.False(before.Online(time.Minute, time.Now()))

	req.NoError(repo.TouchActivity(ctx, user.ID))

	after, err := repo.GetUserByID(ctx, user.ID)
	req.NoError(err)
	req.True(after.Online(time.Minute, time.Now()))
}

func TestUserRepository_Search(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewUserRepository(badgerDB, blugeWriter, log)

	alice := newUser("alice", "alice@example.com")
	req.NoError(repo.CreateUser(ctx, alice))
	req.NoError(repo.CreateUser(ctx, newUser("bob", "bob@example.com")))

	results, err := repo.SearchUsers(ctx, "alice", 10)
	req.NoError(err)
	req.Len(results, 1)
	req.Equal(alice.ID, results[0].ID)

	none, err := repo.SearchUsers(ctx, "nobody", 10)
	req.NoError(err)
	req.Empty(none)
}
