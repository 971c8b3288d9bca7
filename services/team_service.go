package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"team-chat/domain"
	"team-chat/errors"
	"team-chat/repositories"

	"github.com/google/uuid"
)

type ITeamService interface {
	CreateTeam(ctx context.Context, callerID uuid.UUID, name string) (domain.Team, error)
	UpdateTeam(ctx context.Context, callerID, teamID uuid.UUID, field domain.TeamField, value string) (domain.Team, error)
	DeleteTeam(ctx context.Context, callerID, teamID uuid.UUID) error
	AddTeamMember(ctx context.Context, callerID, teamID uuid.UUID, email string) (domain.TeamMember, error)
	RemoveTeamMember(ctx context.Context, callerID, teamID, userID uuid.UUID) error
	CreateDirectMessage(ctx context.Context, callerID, teamID, otherID uuid.UUID) (domain.Channel, error)
	Teams(ctx context.Context, callerID uuid.UUID) ([]TeamView, error)
	TeamMembers(ctx context.Context, callerID, teamID uuid.UUID) ([]MemberView, error)
}

// TeamView is the read projection behind getTeams: the team, its owner
// and what the caller is allowed to see of it.
type TeamView struct {
	Team                 domain.Team
	Admin                domain.User
	Channels             []domain.Channel
	DirectMessageMembers []domain.User
}

// MemberView pairs a membership row with its resolved user.
type MemberView struct {
	User  domain.User
	Admin bool
}

type TeamService struct {
	teams repositories.ITeamRepository
	users repositories.IUserRepository
}

func NewTeamService(teams repositories.ITeamRepository, users repositories.IUserRepository) ITeamService {
	return &TeamService{teams: teams, users: users}
}

// CreateTeam creates the team with the caller as owner, an admin member
// row for the caller and a default general channel, atomically.
func (s *TeamService) CreateTeam(ctx context.Context, callerID uuid.UUID, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, errors.Validation("name", "team name must not be empty")
	}

	now := time.Now().UTC()
	team := domain.Team{
		ID:        uuid.New(),
		Name:      name,
		AdminID:   callerID,
		CreatedAt: now,
	}
	owner := domain.TeamMember{
		UserID:   callerID,
		TeamID:   team.ID,
		Admin:    true,
		JoinedAt: now,
	}
	general := domain.Channel{
		ID:     uuid.New(),
		TeamID: team.ID,
		Name:   "general",
	}

	if err := s.teams.CreateTeam(ctx, team, owner, general); err != nil {
		return domain.Team{}, err
	}
	return team, nil
}

// UpdateTeam mutates one field out of the closed updatable set. Only the
// owner or an admin member may update.
func (s *TeamService) UpdateTeam(ctx context.Context, callerID, teamID uuid.UUID, field domain.TeamField, value string) (domain.Team, error) {
	team, err := s.requireAdmin(ctx, callerID, teamID)
	if err != nil {
		return domain.Team{}, err
	}

	switch field {
	case domain.TeamFieldName:
		value = strings.TrimSpace(value)
		if value == "" {
			return domain.Team{}, errors.Validation("name", "team name must not be empty")
		}
		team.Name = value
	default:
		return domain.Team{}, errors.Validation("option", fmt.Sprintf("unknown field %q", field))
	}

	if err := s.teams.UpdateTeam(ctx, team); err != nil {
		return domain.Team{}, err
	}
	return team, nil
}

// DeleteTeam removes the team; channels, members and DM links cascade.
func (s *TeamService) DeleteTeam(ctx context.Context, callerID, teamID uuid.UUID) error {
	if _, err := s.requireAdmin(ctx, callerID, teamID); err != nil {
		return err
	}
	return s.teams.DeleteTeam(ctx, teamID)
}

// AddTeamMember lets any existing member invite a user by email.
func (s *TeamService) AddTeamMember(ctx context.Context, callerID, teamID uuid.UUID, email string) (domain.TeamMember, error) {
	if err := s.requireMember(ctx, callerID, teamID); err != nil {
		return domain.TeamMember{}, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if stderrors.Is(err, errors.ErrUserNotFound) {
		return domain.TeamMember{}, errors.NotFound("email",
			fmt.Sprintf("no user with email %q", email)).Wrap(err)
	}
	if err != nil {
		return domain.TeamMember{}, err
	}

	member := domain.TeamMember{
		UserID:   user.ID,
		TeamID:   teamID,
		Admin:    false,
		JoinedAt: time.Now().UTC(),
	}

	err = s.teams.AddMember(ctx, member)
	switch {
	case stderrors.Is(err, errors.ErrAlreadyMember):
		return domain.TeamMember{}, errors.Conflict("email", "user is already a member").Wrap(err)
	case stderrors.Is(err, errors.ErrTeamNotFound):
		return domain.TeamMember{}, errors.NotFound("teamId", "team not found").Wrap(err)
	case err != nil:
		return domain.TeamMember{}, err
	}

	return member, nil
}

// RemoveTeamMember is the symmetric counterpart of AddTeamMember.
// Removal requires admin privilege and the owner can never be removed.
func (s *TeamService) RemoveTeamMember(ctx context.Context, callerID, teamID, userID uuid.UUID) error {
	team, err := s.requireAdmin(ctx, callerID, teamID)
	if err != nil {
		return err
	}
	if userID == team.AdminID {
		return errors.Conflict("userId", "the team owner cannot be removed").
			Wrap(errors.ErrOwnerRemoval)
	}

	err = s.teams.RemoveMember(ctx, teamID, userID)
	if stderrors.Is(err, errors.ErrNotMember) {
		return errors.NotFound("userId", "user is not a member of this team").Wrap(err)
	}
	return err
}

// CreateDirectMessage returns the DM conduit between the caller and
// another member, creating it on first use. The conduit always behaves
// as private whatever its stored flag says.
func (s *TeamService) CreateDirectMessage(ctx context.Context, callerID, teamID, otherID uuid.UUID) (domain.Channel, error) {
	if callerID == otherID {
		return domain.Channel{}, errors.Validation("userId", "cannot open a direct message with yourself")
	}
	if err := s.requireMember(ctx, callerID, teamID); err != nil {
		return domain.Channel{}, err
	}
	if _, err := s.teams.GetMember(ctx, teamID, otherID); err != nil {
		if stderrors.Is(err, errors.ErrNotMember) {
			return domain.Channel{}, errors.NotFound("userId", "user is not a member of this team").Wrap(err)
		}
		return domain.Channel{}, err
	}

	existing, err := s.teams.GetDMChannel(ctx, teamID, callerID, otherID)
	if err == nil {
		return existing, nil
	}
	if !stderrors.Is(err, errors.ErrChannelNotFound) {
		return domain.Channel{}, err
	}

	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return domain.Channel{}, err
	}
	other, err := s.users.GetUserByID(ctx, otherID)
	if err != nil {
		return domain.Channel{}, err
	}

	conduit := domain.Channel{
		ID:      uuid.New(),
		TeamID:  teamID,
		Name:    fmt.Sprintf("%s, %s", caller.Username, other.Username),
		Private: true,
		DM:      true,
	}
	if err := s.teams.CreateDMChannel(ctx, conduit, callerID, otherID); err != nil {
		return domain.Channel{}, err
	}
	return conduit, nil
}

// Teams projects every team visible to the caller: one entry per
// membership with the owner, the channels the caller may see and the
// caller's DM partners.
func (s *TeamService) Teams(ctx context.Context, callerID uuid.UUID) ([]TeamView, error) {
	teams, err := s.teams.ListTeamsFor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	views := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		admin, err := s.users.GetUserByID(ctx, team.AdminID)
		if err != nil {
			return nil, err
		}

		channels, err := s.visibleChannels(ctx, team.ID, callerID)
		if err != nil {
			return nil, err
		}

		dmIDs, err := s.teams.ListDMMemberIDs(ctx, team.ID, callerID)
		if err != nil {
			return nil, err
		}
		dmMembers := make([]domain.User, 0, len(dmIDs))
		for _, id := range dmIDs {
			user, err := s.users.GetUserByID(ctx, id)
			if stderrors.Is(err, errors.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			dmMembers = append(dmMembers, user)
		}

		views = append(views, TeamView{
			Team:                 team,
			Admin:                admin,
			Channels:             channels,
			DirectMessageMembers: dmMembers,
		})
	}
	return views, nil
}

// TeamMembers lists the members of a team the caller belongs to.
func (s *TeamService) TeamMembers(ctx context.Context, callerID, teamID uuid.UUID) ([]MemberView, error) {
	if err := s.requireMember(ctx, callerID, teamID); err != nil {
		return nil, err
	}

	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	views := make([]MemberView, 0, len(members))
	for _, member := range members {
		user, err := s.users.GetUserByID(ctx, member.UserID)
		if stderrors.Is(err, errors.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, MemberView{User: user, Admin: member.Admin})
	}
	return views, nil
}

// visibleChannels hides restricted channels the caller is not part of.
// Broadcast channels are visible to every member; a DM conduit only to
// its two participants. Explicit membership for private broadcast
// channels is not modeled, so those stay limited to the team owner.
func (s *TeamService) visibleChannels(ctx context.Context, teamID, callerID uuid.UUID) ([]domain.Channel, error) {
	channels, err := s.teams.ListChannels(ctx, teamID)
	if err != nil {
		return nil, err
	}
	dmIDs, err := s.teams.ListDMMemberIDs(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	conduits := make(map[uuid.UUID]struct{}, len(dmIDs))
	for _, partner := range dmIDs {
		conduit, err := s.teams.GetDMChannel(ctx, teamID, callerID, partner)
		if err != nil {
			continue
		}
		conduits[conduit.ID] = struct{}{}
	}

	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Channel, 0, len(channels))
	for _, channel := range channels {
		switch {
		case channel.DM:
			// A conduit is visible only to its two participants.
			if _, ok := conduits[channel.ID]; ok {
				visible = append(visible, channel)
			}
		case channel.Private:
			if callerID == team.AdminID {
				visible = append(visible, channel)
			}
		default:
			visible = append(visible, channel)
		}
	}
	return visible, nil
}

// requireMember resolves in an Authorization failure for non-members.
func (s *TeamService) requireMember(ctx context.Context, callerID, teamID uuid.UUID) error {
	_, err := s.teams.GetMember(ctx, teamID, callerID)
	if stderrors.Is(err, errors.ErrNotMember) {
		return errors.Authorization("teamId", "caller is not a member of this team").Wrap(err)
	}
	return err
}

// requireAdmin allows the team owner or a member carrying the admin
// flag, and nobody else.
func (s *TeamService) requireAdmin(ctx context.Context, callerID, teamID uuid.UUID) (domain.Team, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if stderrors.Is(err, errors.ErrTeamNotFound) {
		return domain.Team{}, errors.NotFound("teamId", "team not found").Wrap(err)
	}
	if err != nil {
		return domain.Team{}, err
	}

	if team.AdminID == callerID {
		return team, nil
	}

	member, err := s.teams.GetMember(ctx, teamID, callerID)
	if stderrors.Is(err, errors.ErrNotMember) || (err == nil && !member.Admin) {
		return domain.Team{}, errors.Authorization("teamId", "caller is not a team admin").
			Wrap(errors.ErrNotTeamAdmin)
	}
	if err != nil {
		return domain.Team{}, err
	}
	return team, nil
}
