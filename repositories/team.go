//go:generate go run go.uber.org/mock/mockgen -source=team.go -destination=../mocks/mock_team_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"team-chat/domain"
	"team-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ITeamRepository interface {
	CreateTeam(ctx context.Context, team domain.Team, owner domain.TeamMember, general domain.Channel) error
	GetTeam(ctx context.Context, teamID uuid.UUID) (domain.Team, error)
	UpdateTeam(ctx context.Context, team domain.Team) error
	DeleteTeam(ctx context.Context, teamID uuid.UUID) error
	GetMember(ctx context.Context, teamID, userID uuid.UUID) (domain.TeamMember, error)
	AddMember(ctx context.Context, member domain.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error)
	ListTeamsFor(ctx context.Context, userID uuid.UUID) ([]domain.Team, error)
	ListChannels(ctx context.Context, teamID uuid.UUID) ([]domain.Channel, error)
	CreateDMChannel(ctx context.Context, channel domain.Channel, first, second uuid.UUID) error
	GetDMChannel(ctx context.Context, teamID, first, second uuid.UUID) (domain.Channel, error)
	ListDMMemberIDs(ctx context.Context, teamID, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteUserMemberships(ctx context.Context, userID uuid.UUID) error
}

// TeamRepository stores teams and their satellites in BadgerDB.
// Key layout:
//
//	team:{teamID}                     -> team record
//	member:{teamID}:{userID}          -> member record
//	memberof:{userID}:{teamID}        -> nil (reverse index)
//	channel:{teamID}:{channelID}      -> channel record
//	dm:{teamID}:{userID}:{otherID}    -> channelID (written both ways)
//
// The (userID, teamID) uniqueness invariant holds because the member key
// is checked and written inside a single transaction.
type TeamRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewTeamRepository(db *badger.DB, log *slog.Logger) *TeamRepository {
	return &TeamRepository{db: db, log: log}
}

type teamRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AdminID   string `json:"admin_id"`
	CreatedAt int64  `json:"created_at"`
}

type memberRecord struct {
	UserID   string `json:"user_id"`
	TeamID   string `json:"team_id"`
	Admin    bool   `json:"admin"`
	JoinedAt int64  `json:"joined_at"`
}

type channelRecord struct {
	ID      string `json:"id"`
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
	DM      bool   `json:"dm"`
}

func teamKey(teamID uuid.UUID) []byte {
	return []byte("team:" + teamID.String())
}

func memberKey(teamID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", teamID, userID))
}

func memberOfKey(userID, teamID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("memberof:%s:%s", userID, teamID))
}

func channelKey(teamID, channelID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("channel:%s:%s", teamID, channelID))
}

func dmKey(teamID, userID, otherID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("dm:%s:%s:%s", teamID, userID, otherID))
}

// CreateTeam writes the team, its owning member row and the default
// channel in one transaction, so the owner-is-a-member invariant can
// never be observed broken.
func (r *TeamRepository) CreateTeam(ctx context.Context, team domain.Team, owner domain.TeamMember, general domain.Channel) error {
	teamData, err := json.Marshal(fromTeam(team))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	memberData, err := json.Marshal(fromMember(owner))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	channelData, err := json.Marshal(fromChannel(general))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(teamKey(team.ID), teamData); err != nil {
			return err
		}
		if err := txn.Set(memberKey(team.ID, owner.UserID), memberData); err != nil {
			return err
		}
		if err := txn.Set(memberOfKey(owner.UserID, team.ID), nil); err != nil {
			return err
		}
		return txn.Set(channelKey(team.ID, general.ID), channelData)
	})
}

func (r *TeamRepository) GetTeam(ctx context.Context, teamID uuid.UUID) (domain.Team, error) {
	var record teamRecord
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = readTeam(txn, teamID)
		return err
	})
	if err != nil {
		return domain.Team{}, err
	}
	return toTeam(record)
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team domain.Team) error {
	data, err := json.Marshal(fromTeam(team))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := readTeam(txn, team.ID); err != nil {
			return err
		}
		return txn.Set(teamKey(team.ID), data)
	})
}

// DeleteTeam removes the team and cascades to members, channels and DM
// links, including the reverse membership index of every member.
func (r *TeamRepository) DeleteTeam(ctx context.Context, teamID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := readTeam(txn, teamID); err != nil {
			return err
		}

		members, err := collectMembers(txn, teamID)
		if err != nil {
			return err
		}

		var keys [][]byte
		keys = append(keys, teamKey(teamID))
		for _, member := range members {
			userID, err := uuid.Parse(member.UserID)
			if err != nil {
				return err
			}
			keys = append(keys, memberKey(teamID, userID), memberOfKey(userID, teamID))
		}
		for _, prefix := range []string{
			fmt.Sprintf("channel:%s:", teamID),
			fmt.Sprintf("dm:%s:", teamID),
		} {
			collected, err := collectKeys(txn, []byte(prefix))
			if err != nil {
				return err
			}
			keys = append(keys, collected...)
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID uuid.UUID) (domain.TeamMember, error) {
	var record memberRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(memberKey(teamID, userID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrNotMember
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.TeamMember{}, err
	}
	return toMember(record)
}

// AddMember inserts a membership row. The existence check and the write
// share a transaction: two concurrent invitations for the same user
// cannot both succeed.
func (r *TeamRepository) AddMember(ctx context.Context, member domain.TeamMember) error {
	data, err := json.Marshal(fromMember(member))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := readTeam(txn, member.TeamID); err != nil {
			return err
		}
		if _, err := txn.Get(memberKey(member.TeamID, member.UserID)); err == nil {
			return errors.ErrAlreadyMember
		}
		if err := txn.Set(memberKey(member.TeamID, member.UserID), data); err != nil {
			return err
		}
		return txn.Set(memberOfKey(member.UserID, member.TeamID), nil)
	})
}

// RemoveMember drops a membership row together with the DM links the
// user held inside that team, channels included.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(memberKey(teamID, userID)); stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrNotMember
		} else if err != nil {
			return err
		}

		keys := [][]byte{memberKey(teamID, userID), memberOfKey(userID, teamID)}
		dmKeys, err := collectUserDMLinks(txn, teamID, userID)
		if err != nil {
			return err
		}
		keys = append(keys, dmKeys...)

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.TeamMember, error) {
	var records []memberRecord
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		records, err = collectMembers(txn, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}

	members := make([]domain.TeamMember, 0, len(records))
	for _, record := range records {
		member, err := toMember(record)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// ListTeamsFor walks the reverse membership index and resolves every
// team the user belongs to.
func (r *TeamRepository) ListTeamsFor(ctx context.Context, userID uuid.UUID) ([]domain.Team, error) {
	var records []teamRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("memberof:%s:", userID))
		keys, err := collectKeys(txn, prefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			teamID, err := uuid.Parse(string(key[len(prefix):]))
			if err != nil {
				return err
			}
			record, err := readTeam(txn, teamID)
			if stderrors.Is(err, errors.ErrTeamNotFound) {
				r.log.Warn(fmt.Sprintf("Dangling membership index for team %s", teamID))
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	teams := make([]domain.Team, 0, len(records))
	for _, record := range records {
		team, err := toTeam(record)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

func (r *TeamRepository) ListChannels(ctx context.Context, teamID uuid.UUID) ([]domain.Channel, error) {
	var records []channelRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("channel:%s:", teamID))
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record channelRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	channels := make([]domain.Channel, 0, len(records))
	for _, record := range records {
		channel, err := toChannel(record)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

// CreateDMChannel stores the conduit channel and links both users to it.
func (r *TeamRepository) CreateDMChannel(ctx context.Context, channel domain.Channel, first, second uuid.UUID) error {
	data, err := json.Marshal(fromChannel(channel))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	channelID := []byte(channel.ID.String())

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(channelKey(channel.TeamID, channel.ID), data); err != nil {
			return err
		}
		if err := txn.Set(dmKey(channel.TeamID, first, second), channelID); err != nil {
			return err
		}
		return txn.Set(dmKey(channel.TeamID, second, first), channelID)
	})
}

func (r *TeamRepository) GetDMChannel(ctx context.Context, teamID, first, second uuid.UUID) (domain.Channel, error) {
	var record channelRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dmKey(teamID, first, second))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrChannelNotFound
		}
		if err != nil {
			return err
		}

		var channelID uuid.UUID
		err = item.Value(func(val []byte) error {
			channelID, err = uuid.Parse(string(val))
			return err
		})
		if err != nil {
			return err
		}

		channelItem, err := txn.Get(channelKey(teamID, channelID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrChannelNotFound
		}
		if err != nil {
			return err
		}
		return channelItem.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.Channel{}, err
	}
	return toChannel(record)
}

// ListDMMemberIDs returns the users the given user holds a DM conduit
// with inside the team.
func (r *TeamRepository) ListDMMemberIDs(ctx context.Context, teamID, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("dm:%s:%s:", teamID, userID))
		keys, err := collectKeys(txn, prefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			otherID, err := uuid.Parse(string(key[len(prefix):]))
			if err != nil {
				return err
			}
			ids = append(ids, otherID)
		}
		return nil
	})
	return ids, err
}

// DeleteUserMemberships cascades a user deletion over every team: the
// member rows, the reverse index and the DM links all go.
func (r *TeamRepository) DeleteUserMemberships(ctx context.Context, userID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("memberof:%s:", userID))
		indexKeys, err := collectKeys(txn, prefix)
		if err != nil {
			return err
		}

		var keys [][]byte
		for _, indexKey := range indexKeys {
			teamID, err := uuid.Parse(string(indexKey[len(prefix):]))
			if err != nil {
				return err
			}
			keys = append(keys, indexKey, memberKey(teamID, userID))

			dmKeys, err := collectUserDMLinks(txn, teamID, userID)
			if err != nil {
				return err
			}
			keys = append(keys, dmKeys...)
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// collectUserDMLinks gathers both directions of every DM link the user
// holds in a team, plus the conduit channel records themselves.
func collectUserDMLinks(txn *badger.Txn, teamID, userID uuid.UUID) ([][]byte, error) {
	prefix := []byte(fmt.Sprintf("dm:%s:%s:", teamID, userID))
	forward, err := collectKeys(txn, prefix)
	if err != nil {
		return nil, err
	}

	var keys [][]byte
	for _, key := range forward {
		otherID, err := uuid.Parse(string(key[len(prefix):]))
		if err != nil {
			return nil, err
		}

		item, err := txn.Get(key)
		if err != nil {
			return nil, err
		}
		var channelID uuid.UUID
		err = item.Value(func(val []byte) error {
			channelID, err = uuid.Parse(string(val))
			return err
		})
		if err != nil {
			return nil, err
		}

		keys = append(keys, key, dmKey(teamID, otherID, userID), channelKey(teamID, channelID))
	}
	return keys, nil
}

func collectMembers(txn *badger.Txn, teamID uuid.UUID) ([]memberRecord, error) {
	prefix := []byte(fmt.Sprintf("member:%s:", teamID))
	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var records []memberRecord
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var record memberRecord
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// collectKeys copies every key under a prefix so the caller can delete
// them without mutating the iterator's view.
func collectKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

func readTeam(txn *badger.Txn, teamID uuid.UUID) (teamRecord, error) {
	var record teamRecord
	item, err := txn.Get(teamKey(teamID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return record, errors.ErrTeamNotFound
	}
	if err != nil {
		return record, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func fromTeam(team domain.Team) teamRecord {
	return teamRecord{
		ID:        team.ID.String(),
		Name:      team.Name,
		AdminID:   team.AdminID.String(),
		CreatedAt: team.CreatedAt.Unix(),
	}
}

func toTeam(record teamRecord) (domain.Team, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Team{}, err
	}
	adminID, err := uuid.Parse(record.AdminID)
	if err != nil {
		return domain.Team{}, err
	}
	return domain.Team{
		ID:        id,
		Name:      record.Name,
		AdminID:   adminID,
		CreatedAt: time.Unix(record.CreatedAt, 0).UTC(),
	}, nil
}

func fromMember(member domain.TeamMember) memberRecord {
	return memberRecord{
		UserID:   member.UserID.String(),
		TeamID:   member.TeamID.String(),
		Admin:    member.Admin,
		JoinedAt: member.JoinedAt.Unix(),
	}
}

func toMember(record memberRecord) (domain.TeamMember, error) {
	userID, err := uuid.Parse(record.UserID)
	if err != nil {
		return domain.TeamMember{}, err
	}
	teamID, err := uuid.Parse(record.TeamID)
	if err != nil {
		return domain.TeamMember{}, err
	}
	return domain.TeamMember{
		UserID:   userID,
		TeamID:   teamID,
		Admin:    record.Admin,
		JoinedAt: time.Unix(record.JoinedAt, 0).UTC(),
	}, nil
}

func fromChannel(channel domain.Channel) channelRecord {
	return channelRecord{
		ID:      channel.ID.String(),
		TeamID:  channel.TeamID.String(),
		Name:    channel.Name,
		Private: channel.Private,
		DM:      channel.DM,
	}
}

func toChannel(record channelRecord) (domain.Channel, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Channel{}, err
	}
	teamID, err := uuid.Parse(record.TeamID)
	if err != nil {
		return domain.Channel{}, err
	}
	return domain.Channel{
		ID:      id,
		TeamID:  teamID,
		Name:    record.Name,
		Private: record.Private,
		DM:      record.DM,
	}, nil
}
