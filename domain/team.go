// Package domain contains core concepts of the team-messaging system.
// This file defines Team, Channel and TeamMember entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team groups channels and members. AdminID is the owning user, set at
// creation; it is distinct from a TeamMember's Admin flag.
type Team struct {
	ID        uuid.UUID
	Name      string
	AdminID   uuid.UUID
	CreatedAt time.Time
}

// Channel is a conversation inside a team. A channel with DM set always
// behaves as private, whatever the stored Private value says.
type Channel struct {
	ID      uuid.UUID
	TeamID  uuid.UUID
	Name    string
	Private bool
	DM      bool
}

// Restricted reports whether the channel is only visible to explicit members.
func (c Channel) Restricted() bool {
	return c.Private || c.DM
}

// TeamMember links a user to a team. The (UserID, TeamID) pair is unique
// in the store. Admin marks elevated privilege within that team only.
type TeamMember struct {
	UserID   uuid.UUID
	TeamID   uuid.UUID
	Admin    bool
	JoinedAt time.Time
}

// TeamField enumerates the mutable fields of a Team.
type TeamField string

const (
	TeamFieldName TeamField = "name"
)
