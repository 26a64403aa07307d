// Package organization resolves organization members, chiefly the owner who
// receives billing email.
package organization

import (
	"context"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

// Role is a member's role in an organization.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// Member is a user's membership in an organization.
type Member struct {
	UserID         string `bson:"user_id" json:"user_id"`
	OrganizationID string `bson:"organization_id" json:"organization_id"`
	Email          string `bson:"email" json:"email"`
	Name           string `bson:"name" json:"name"`
	Role           Role   `bson:"role" json:"role"`
	IsActive       bool   `bson:"is_active" json:"-"`
}

var ErrOwnerNotFound = apperr.New(apperr.KindNotFound, "organization_owner_not_found", "organization has no owner")

// Directory looks members up in the backing store.
type Directory interface {
	Owner(ctx context.Context, organizationID string) (*Member, error)
}
