//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"team-chat/domain"
	"team-chat/errors"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	TouchActivity(ctx context.Context, id uuid.UUID) error
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type UserRepository struct {
	db     *badger.DB
	search *bluge.Writer
	log    *slog.Logger
}

func NewUserRepository(db *badger.DB, search *bluge.Writer, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, search: search, log: log}
}

// userRecord is the stored shape of a user. Uniqueness of email and
// username is enforced through dedicated index keys written in the same
// transaction as the record:
//
//	user:id:{uuid}        -> record
//	user:email:{email}    -> uuid
//	user:name:{username}  -> uuid
type userRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	LastActivity int64  `json:"last_activity"`
	CreatedAt    int64  `json:"created_at"`
}

func userKey(id uuid.UUID) []byte {
	return []byte("user:id:" + id.String())
}

func emailKey(email string) []byte {
	return []byte("user:email:" + strings.ToLower(email))
}

func usernameKey(username string) []byte {
	return []byte("user:name:" + strings.ToLower(username))
}

// CreateUser persists a user and claims its email and username index
// keys. Both checks and all three writes happen in one transaction, so
// two concurrent registrations cannot both pass the uniqueness check.
func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return errors.ErrEmailTaken
		}
		if _, err := txn.Get(usernameKey(user.Username)); err == nil {
			return errors.ErrUsernameTaken
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		if err := txn.Set(emailKey(user.Email), []byte(user.ID.String())); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(user.ID.String()))
	})
	if err != nil {
		return err
	}

	return r.index(user)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.getUser(userKey(id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var id string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, err
	}
	return r.getUser(userKey(parsed))
}

// UpdateUser rewrites the record and swaps index keys when the email or
// username changed, re-checking uniqueness in the same transaction.
func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(fromUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		previous, err := readUser(txn, userKey(user.ID))
		if err != nil {
			return err
		}

		if !strings.EqualFold(previous.Email, user.Email) {
			if _, err := txn.Get(emailKey(user.Email)); err == nil {
				return errors.ErrEmailTaken
			}
			if err := txn.Delete(emailKey(previous.Email)); err != nil {
				return err
			}
			if err := txn.Set(emailKey(user.Email), []byte(user.ID.String())); err != nil {
				return err
			}
		}
		if !strings.EqualFold(previous.Username, user.Username) {
			if _, err := txn.Get(usernameKey(user.Username)); err == nil {
				return errors.ErrUsernameTaken
			}
			if err := txn.Delete(usernameKey(previous.Username)); err != nil {
				return err
			}
			if err := txn.Set(usernameKey(user.Username), []byte(user.ID.String())); err != nil {
				return err
			}
		}
		return txn.Set(userKey(user.ID), data)
	})
	if err != nil {
		return err
	}

	return r.index(user)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		user, err := readUser(txn, userKey(id))
		if err != nil {
			return err
		}
		if err := txn.Delete(emailKey(user.Email)); err != nil {
			return err
		}
		if err := txn.Delete(usernameKey(user.Username)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
	if err != nil {
		return err
	}

	doc := bluge.NewDocument(id.String())
	if err := r.search.Delete(doc.ID()); err != nil {
		r.log.Warn(fmt.Sprintf("Failed to drop user %s from search index: %v", id, err))
	}
	return nil
}

// TouchActivity refreshes the presence timestamp. Called on every
// authenticated request, so it stays cheap and never fails the caller.
func (r *UserRepository) TouchActivity(ctx context.Context, id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		user, err := readUser(txn, userKey(id))
		if err != nil {
			return err
		}
		user.LastActivity = time.Now().Unix()
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
}

// SearchUsers matches usernames through the Bluge index, then resolves
// the hits against BadgerDB.
func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	reader, err := r.search.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	match := bluge.NewMatchQuery(query).SetField("username")
	request := bluge.NewTopNSearch(limit, match)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var users []domain.User
	for {
		next, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}

		var id string
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				id = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}

		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		user, err := r.getUser(userKey(parsed))
		if stderrors.Is(err, errors.ErrUserNotFound) {
			// Index lags behind a deletion, skip the stale hit.
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) index(user domain.User) error {
	doc := bluge.NewDocument(user.ID.String())
	doc.AddField(bluge.NewTextField("username", user.Username).StoreValue())
	return r.search.Update(doc.ID(), doc)
}

func (r *UserRepository) getUser(key []byte) (domain.User, error) {
	var record userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = readUser(txn, key)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record)
}

func readUser(txn *badger.Txn, key []byte) (userRecord, error) {
	var record userRecord
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return record, errors.ErrUserNotFound
	}
	if err != nil {
		return record, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func fromUser(user domain.User) userRecord {
	var lastActivity int64
	if !user.LastActivity.IsZero() {
		lastActivity = user.LastActivity.Unix()
	}
	return userRecord{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		LastActivity: lastActivity,
		CreatedAt:    user.CreatedAt.Unix(),
	}
}

func toUser(record userRecord) (domain.User, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.User{}, err
	}
	var lastActivity time.Time
	if record.LastActivity > 0 {
		lastActivity = time.Unix(record.LastActivity, 0).UTC()
	}
	return domain.User{
		ID:           id,
		Username:     record.Username,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		LastActivity: lastActivity,
		CreatedAt:    time.Unix(record.CreatedAt, 0).UTC(),
	}, nil
}
