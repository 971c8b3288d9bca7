package repositories

import (
	"testing"
	"time"

	"team-chat/domain"
	"team-chat/errors"

	"github.com/google/uuid"
	db "github.com/mama165/sdk-go/database"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newTeam(name string, adminID uuid.UUID) (domain.Team, domain.TeamMember, domain.Channel) {
	team := domain.Team{
		ID:        uuid.New(),
		Name:      name,
		AdminID:   adminID,
		CreatedAt: time.Now().UTC(),
	}
	owner := domain.TeamMember{
		UserID:   adminID,
		TeamID:   team.ID,
		Admin:    true,
		JoinedAt: team.CreatedAt,
	}
	general := domain.Channel{
		ID:     uuid.New(),
		TeamID: team.ID,
		Name:   "general",
	}
	return team, owner, general
}

func TestTeamRepository_CreateTeam(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewTeamRepository(badgerDB, log)

	adminID := uuid.New()
	team, owner, general := newTeam("engineering", adminID)
	req.NoError(repo.CreateTeam(ctx, team, owner, general))

	fetched, err := repo.GetTeam(ctx, team.ID)
	req.NoError(err)
	req.Equal("engineering", fetched.Name)
	req.Equal(adminID, fetched.AdminID)

	// The owner is a member with the admin flag right after creation.
	member, err := repo.GetMember(ctx, team.ID, adminID)
	req.NoError(err)
	req.True(member.Admin)

	channels, err := repo.ListChannels(ctx, team.ID)
	req.NoError(err)
	req.Len(channels, 1)
	req.Equal("general", channels[0].Name)
	req.False(channels[0].Restricted())
}

func TestTeamRepository_Members(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewTeamRepository(badgerDB, log)

	adminID := uuid.New()
	team, owner, general := newTeam("engineering", adminID)
	req.NoError(repo.CreateTeam(ctx, team, owner, general))

	guestID := uuid.New()
	guest := domain.TeamMember{UserID: guestID, TeamID: team.ID, JoinedAt: time.Now().UTC()}

	t.Run("should add a member exactly once", func(t *testing.T) {
		req := require.New(t)
		req.NoError(repo.AddMember(ctx, guest))
		req.ErrorIs(repo.AddMember(ctx, guest), errors.ErrAlreadyMember)

		members, err := repo.ListMembers(ctx, team.ID)
		req.NoError(err)
		req.Len(members, 2)
	})

	t.Run("should fail for an unknown team", func(t *testing.T) {
		orphan := domain.TeamMember{UserID: guestID, TeamID: uuid.New()}
		require.ErrorIs(t, repo.AddMember(ctx, orphan), errors.ErrTeamNotFound)
	})

	t.Run("should list the team for each member", func(t *testing.T) {
		req := require.New(t)
		teams, err := repo.ListTeamsFor(ctx, guestID)
		req.NoError(err)
		req.Len(teams, 1)
		req.Equal(team.ID, teams[0].ID)
	})

	t.Run("should remove a member", func(t *testing.T) {
		req := require.New(t)
		req.NoError(repo.RemoveMember(ctx, team.ID, guestID))
		req.ErrorIs(repo.RemoveMember(ctx, team.ID, guestID), errors.ErrNotMember)

		teams, err := repo.ListTeamsFor(ctx, guestID)
		req.NoError(err)
		req.Empty(teams)
	})
}

func TestTeamRepository_DeleteTeam(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewTeamRepository(badgerDB, log)

	adminID := uuid.New()
	team, owner, general := newTeam("engineering", adminID)
	req.NoError(repo.CreateTeam(ctx, team, owner, general))

	guestID := uuid.New()
	req.NoError(repo.AddMember(ctx, domain.TeamMember{UserID: guestID, TeamID: team.ID}))

	req.NoError(repo.DeleteTeam(ctx, team.ID))

	_, err = repo.GetTeam(ctx, team.ID)
	req.ErrorIs(err, errors.ErrTeamNotFound)

	// Members and channels are cascaded away.
	_, err = repo.GetMember(ctx, team.ID, guestID)
	req.ErrorIs(err, errors.ErrNotMember)

	channels, err := repo.ListChannels(ctx, team.ID)
	req.NoError(err)
	req.Empty(channels)

	teams, err := repo.ListTeamsFor(ctx, adminID)
	req.NoError(err)
	req.Empty(teams)

	req.ErrorIs(repo.DeleteTeam(ctx, team.ID), errors.ErrTeamNotFound)
}

func TestTeamRepository_DMChannels(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewTeamRepository(badgerDB, log)

	adminID := uuid.New()
	team, owner, general := newTeam("engineering", adminID)
	req.NoError(repo.CreateTeam(ctx, team, owner, general))

	otherID := uuid.New()
	req.NoError(repo.AddMember(ctx, domain.TeamMember{UserID: otherID, TeamID: team.ID}))

	conduit := domain.Channel{
		ID:     uuid.New(),
		TeamID: team.ID,
		Name:   "dm",
		DM:     true,
	}
	req.NoError(repo.CreateDMChannel(ctx, conduit, adminID, otherID))

	t.Run("should resolve the conduit from either side", func(t *testing.T) {
		req := require.New(t)
		forward, err := repo.GetDMChannel(ctx, team.ID, adminID, otherID)
		req.NoError(err)
		req.Equal(conduit.ID, forward.ID)
		req.True(forward.Restricted())

		backward, err := repo.GetDMChannel(ctx, team.ID, otherID, adminID)
		req.NoError(err)
		req.Equal(conduit.ID, backward.ID)
	})

	t.Run("should list DM members for both users", func(t *testing.T) {
		req := require.New(t)
		ids, err := repo.ListDMMemberIDs(ctx, team.ID, adminID)
		req.NoError(err)
		req.Equal([]uuid.UUID{otherID}, ids)

		ids, err = repo.ListDMMemberIDs(ctx, team.ID, otherID)
		req.NoError(err)
		req.Equal([]uuid.UUID{adminID}, ids)
	})

	t.Run("should drop links and conduit when the membership goes", func(t *testing.T) {
		req := require.New(t)
		req.NoError(repo.RemoveMember(ctx, team.ID, otherID))

		_, err := repo.GetDMChannel(ctx, team.ID, adminID, otherID)
		req.ErrorIs(err, errors.ErrChannelNotFound)

		channels, err := repo.ListChannels(ctx, team.ID)
		req.NoError(err)
		names := lo.Map(channels, func(c domain.Channel, _ int) string { return c.Name })
		req.Equal([]string{"general"}, names)
	})
}

func TestTeamRepository_DeleteUserMemberships(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewTeamRepository(badgerDB, log)

	userID := uuid.New()
	for _, name := range []string{"first", "second"} {
		team, owner, general := newTeam(name, uuid.New())
		req.NoError(repo.CreateTeam(ctx, team, owner, general))
		req.NoError(repo.AddMember(ctx, domain.TeamMember{UserID: userID, TeamID: team.ID}))
	}

	teams, err := repo.ListTeamsFor(ctx, userID)
	req.NoError(err)
	req.Len(teams, 2)

	req.NoError(repo.DeleteUserMemberships(ctx, userID))

	teams, err = repo.ListTeamsFor(ctx, userID)
	req.NoError(err)
	req.Empty(teams)

	for _, team := range teams {
		_, err = repo.GetMember(ctx, team.ID, userID)
		req.ErrorIs(err, errors.ErrNotMember)
	}
}
