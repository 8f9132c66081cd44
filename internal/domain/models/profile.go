// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values stored on a Profile.
const (
	RoleCommunityMember = "community_member"
	RoleVolunteer       = "volunteer"
	RoleNGO             = "ngo"
	RoleAdmin           = "admin"
)

// Roles lists every stored role value.
var Roles = []string{RoleCommunityMember, RoleVolunteer, RoleNGO, RoleAdmin}

// Profile maps a user to exactly one role. There is one profile per user
// (unique index on user_id) and the role does not change after creation.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
