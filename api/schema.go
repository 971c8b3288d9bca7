package api

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/services"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/samber/lo"
)

// errInternal is the only message an uncategorized fault may leak to a
// client. The real cause goes to the log, and the handler turns it into
// a transport-level failure instead of an envelope.
var errInternal = stderrors.New("internal server error")

type errorDTO struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Online   bool   `json:"online"`
}

type memberDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
	Admin    bool   `json:"admin"`
}

type channelDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
	DM      bool   `json:"dm"`
}

type teamDTO struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Admin                *userDTO     `json:"admin"`
	Channels             []channelDTO `json:"channels"`
	DirectMessageMembers []userDTO    `json:"directMessageMembers"`
}

// payloadDTO is the uniform mutation envelope. Each payload object type
// in the schema picks the fields relevant to its mutation.
type payloadDTO struct {
	Ok           bool        `json:"ok"`
	Errors       []errorDTO  `json:"errors"`
	User         *userDTO    `json:"user,omitempty"`
	Team         *teamDTO    `json:"team,omitempty"`
	Channel      *channelDTO `json:"channel,omitempty"`
	Token        string      `json:"token,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
}

// Schema wires the GraphQL surface onto the domain services. It only
// translates shapes and builds envelopes; validation and authorization
// live in the services.
type Schema struct {
	users          services.IUserService
	teams          services.ITeamService
	presenceWindow time.Duration
	log            *slog.Logger
}

func NewSchema(users services.IUserService, teams services.ITeamService,
	presenceWindow time.Duration, log *slog.Logger) (graphql.Schema, error) {
	s := &Schema{users: users, teams: teams, presenceWindow: presenceWindow, log: log}
	return s.build()
}

func (s *Schema) build() (graphql.Schema, error) {
	errorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Error",
		Fields: graphql.Fields{
			"path":    &graphql.Field{Type: graphql.String},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
	errorList := graphql.NewList(graphql.NewNonNull(errorType))

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.Field{Type: graphql.String},
			"online":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	memberType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Member",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"online":   &graphql.Field{Type: graphql.Boolean},
			"admin":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	channelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Channel",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"private": &graphql.Field{Type: graphql.Boolean},
			"dm":      &graphql.Field{Type: graphql.Boolean},
		},
	})

	teamType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Team",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":                 &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"admin":                &graphql.Field{Type: userType},
			"channels":             &graphql.Field{Type: graphql.NewList(channelType)},
			"directMessageMembers": &graphql.Field{Type: graphql.NewList(userType)},
		},
	})

	voidPayload := payloadType("VoidResponse", errorList, nil)
	registerPayload := payloadType("RegisterResponse", errorList, graphql.Fields{
		"user": &graphql.Field{Type: userType},
	})
	loginPayload := payloadType("LoginResponse", errorList, graphql.Fields{
		"token":        &graphql.Field{Type: graphql.String},
		"refreshToken": &graphql.Field{Type: graphql.String},
	})
	updateUserPayload := payloadType("UpdateUserResponse", errorList, graphql.Fields{
		"user": &graphql.Field{Type: userType},
	})
	createTeamPayload := payloadType("CreateTeamResponse", errorList, graphql.Fields{
		"team": &graphql.Field{Type: teamType},
	})
	updateTeamPayload := payloadType("UpdateTeamResponse", errorList, graphql.Fields{
		"team": &graphql.Field{Type: teamType},
	})
	dmPayload := payloadType("CreateDirectMessageResponse", errorList, graphql.Fields{
		"channel": &graphql.Field{Type: channelType},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getTeams": &graphql.Field{
				Type:    graphql.NewList(teamType),
				Resolve: s.resolveGetTeams,
			},
			"getTeamMembers": &graphql.Field{
				Type: graphql.NewList(memberType),
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveGetTeamMembers,
			},
			"searchUsers": &graphql.Field{
				Type: graphql.NewList(userType),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveSearchUsers,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: registerPayload,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveRegister,
			},
			"login": &graphql.Field{
				Type: loginPayload,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveLogin,
			},
			"updateUser": &graphql.Field{
				Type: updateUserPayload,
				Args: graphql.FieldConfigArgument{
					"option": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"value":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveUpdateUser,
			},
			"deleteUser": &graphql.Field{
				Type:    voidPayload,
				Resolve: s.resolveDeleteUser,
			},
			"createTeam": &graphql.Field{
				Type: createTeamPayload,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveCreateTeam,
			},
			"updateTeam": &graphql.Field{
				Type: updateTeamPayload,
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"option": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"value":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveUpdateTeam,
			},
			"deleteTeam": &graphql.Field{
				Type: voidPayload,
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveDeleteTeam,
			},
			"addTeamMember": &graphql.Field{
				Type: voidPayload,
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"email":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveAddTeamMember,
			},
			"removeTeamMember": &graphql.Field{
				Type: voidPayload,
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveRemoveTeamMember,
			},
			"createDirectMessage": &graphql.Field{
				Type: dmPayload,
				Args: graphql.FieldConfigArgument{
					"teamId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.resolveCreateDirectMessage,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// payloadType builds a mutation envelope object: ok and errors plus the
// mutation-specific data fields.
func payloadType(name string, errorList graphql.Output, extra graphql.Fields) *graphql.Object {
	fields := graphql.Fields{
		"ok":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"errors": &graphql.Field{Type: errorList},
	}
	for key, field := range extra {
		fields[key] = field
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fields})
}

// fail maps a domain failure into the envelope. Anything that is not a
// DomainError is logged and escalated as a transport-level fault.
func (s *Schema) fail(err error) (interface{}, error) {
	var derr *errors.DomainError
	if stderrors.As(err, &derr) {
		return payloadDTO{
			Ok:     false,
			Errors: []errorDTO{{Path: derr.Path, Message: derr.Message}},
		}, nil
	}
	s.log.Error(fmt.Sprintf("Internal fault: %v", err))
	return nil, errInternal
}

// caller extracts the authenticated identity injected by the HTTP
// middleware. Its absence is an authorization failure, not a transport
// fault, so unauthenticated mutations still get a well-formed envelope.
func caller(p graphql.ResolveParams) (uuid.UUID, error) {
	id, ok := auth.Identity(p.Context)
	if !ok {
		return uuid.Nil, errors.Authorization("auth", "authentication required")
	}
	return id, nil
}

func parseID(p graphql.ResolveParams, arg string) (uuid.UUID, error) {
	raw, _ := p.Args[arg].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Validation(arg, fmt.Sprintf("malformed id %q", raw))
	}
	return id, nil
}

func (s *Schema) resolveRegister(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	user, err := s.users.Register(p.Context, username, email, password)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, User: lo.ToPtr(s.toUserDTO(user))}, nil
}

func (s *Schema) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	pair, err := s.users.Login(p.Context, email, password)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, Token: pair.Token, RefreshToken: pair.RefreshToken}, nil
}

func (s *Schema) resolveUpdateUser(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	option, _ := p.Args["option"].(string)
	value, _ := p.Args["value"].(string)

	user, err := s.users.UpdateUser(p.Context, callerID, domain.UserField(option), value)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, User: lo.ToPtr(s.toUserDTO(user))}, nil
}

func (s *Schema) resolveDeleteUser(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	if err := s.users.DeleteUser(p.Context, callerID); err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true}, nil
}

func (s *Schema) resolveCreateTeam(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	name, _ := p.Args["name"].(string)

	team, err := s.teams.CreateTeam(p.Context, callerID, name)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, Team: &teamDTO{ID: team.ID.String(), Name: team.Name}}, nil
}

func (s *Schema) resolveUpdateTeam(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return s.fail(err)
	}
	option, _ := p.Args["option"].(string)
	value, _ := p.Args["value"].(string)

	team, err := s.teams.UpdateTeam(p.Context, callerID, teamID, domain.TeamField(option), value)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, Team: &teamDTO{ID: team.ID.String(), Name: team.Name}}, nil
}

func (s *Schema) resolveDeleteTeam(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return s.fail(err)
	}
	if err := s.teams.DeleteTeam(p.Context, callerID, teamID); err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true}, nil
}

func (s *Schema) resolveAddTeamMember(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return s.fail(err)
	}
	email, _ := p.Args["email"].(string)

	if _, err := s.teams.AddTeamMember(p.Context, callerID, teamID, email); err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true}, nil
}

func (s *Schema) resolveRemoveTeamMember(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return s.fail(err)
	}
	userID, err := parseID(p, "userId")
	if err != nil {
		return s.fail(err)
	}
	if err := s.teams.RemoveTeamMember(p.Context, callerID, teamID, userID); err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true}, nil
}

func (s *Schema) resolveCreateDirectMessage(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return s.fail(err)
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return s.fail(err)
	}
	userID, err := parseID(p, "userId")
	if err != nil {
		return s.fail(err)
	}

	channel, err := s.teams.CreateDirectMessage(p.Context, callerID, teamID, userID)
	if err != nil {
		return s.fail(err)
	}
	return payloadDTO{Ok: true, Channel: lo.ToPtr(toChannelDTO(channel))}, nil
}

func (s *Schema) resolveGetTeams(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return nil, err
	}

	views, err := s.teams.Teams(p.Context, callerID)
	if err != nil {
		return nil, s.escalate(err)
	}

	teams := make([]teamDTO, 0, len(views))
	for _, view := range views {
		teams = append(teams, teamDTO{
			ID:    view.Team.ID.String(),
			Name:  view.Team.Name,
			Admin: lo.ToPtr(s.toUserDTO(view.Admin)),
			Channels: lo.Map(view.Channels, func(c domain.Channel, _ int) channelDTO {
				return toChannelDTO(c)
			}),
			DirectMessageMembers: lo.Map(view.DirectMessageMembers, func(u domain.User, _ int) userDTO {
				return s.toUserDTO(u)
			}),
		})
	}
	return teams, nil
}

func (s *Schema) resolveGetTeamMembers(p graphql.ResolveParams) (interface{}, error) {
	callerID, err := caller(p)
	if err != nil {
		return nil, err
	}
	teamID, err := parseID(p, "teamId")
	if err != nil {
		return nil, err
	}

	views, err := s.teams.TeamMembers(p.Context, callerID, teamID)
	if err != nil {
		return nil, s.escalate(err)
	}

	now := time.Now()
	return lo.Map(views, func(view services.MemberView, _ int) memberDTO {
		return memberDTO{
			ID:       view.User.ID.String(),
			Username: view.User.Username,
			Online:   view.User.Online(s.presenceWindow, now),
			Admin:    view.Admin,
		}
	}), nil
}

func (s *Schema) resolveSearchUsers(p graphql.ResolveParams) (interface{}, error) {
	if _, err := caller(p); err != nil {
		return nil, err
	}
	query, _ := p.Args["query"].(string)

	users, err := s.users.SearchUsers(p.Context, query)
	if err != nil {
		return nil, s.escalate(err)
	}
	return lo.Map(users, func(u domain.User, _ int) userDTO {
		return s.toUserDTO(u)
	}), nil
}

// escalate keeps DomainErrors readable in query results but hides
// internal faults behind a generic message.
func (s *Schema) escalate(err error) error {
	var derr *errors.DomainError
	if stderrors.As(err, &derr) {
		return derr
	}
	s.log.Error(fmt.Sprintf("Internal fault: %v", err))
	return errInternal
}

func (s *Schema) toUserDTO(user domain.User) userDTO {
	return userDTO{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Online:   user.Online(s.presenceWindow, time.Now()),
	}
}

func toChannelDTO(channel domain.Channel) channelDTO {
	return channelDTO{
		ID:      channel.ID.String(),
		Name:    channel.Name,
		Private: channel.Private,
		DM:      channel.DM,
	}
}
