// Package gate authorizes authenticated callers by shop role.
//
// The role comes from the profiles table through a RoleResolver; the
// decision comes from a casbin enforcer whose policies map roles to
// (object, action) pairs.
package gate

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/jwt"
)

const (
	RoleUser      = "USER"
	RoleMagasin   = "MAGASIN"
	RoleAdmin     = "ADMIN"
	RoleAdminFull = "ADMIN_FULL"
)

const (
	ActRead  = "read"
	ActWrite = "write"
)

// RoleResolver returns the shop role of a user. Unknown users are RoleUser.
type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

// Caller is the authorized identity handed back to usecases.
type Caller struct {
	UserID string
	Email  string
	Role   string
}

// Authorizer is what usecases depend on.
type Authorizer interface {
	Authorize(ctx context.Context, obj, act string) (Caller, error)
}

type Gate struct {
	enforcer Enforcer
	roles    RoleResolver
}

func New(enforcer Enforcer, roles RoleResolver) *Gate {
	return &Gate{enforcer: enforcer, roles: roles}
}

// Authorize checks that the caller in ctx may perform act on obj. It fails
// with 401 without claims and 403 when the role is not allowed.
func (g *Gate) Authorize(ctx context.Context, obj, act string) (Caller, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID() == "" {
		return Caller{}, goerror.Unauthenticated()
	}

	role, err := g.roles.Role(ctx, clm.UserID())
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve role", "user_id", clm.UserID(), "error", err)
		return Caller{}, goerror.NewServer(err)
	}

	ok, err := g.enforcer.Enforce(role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enforce policy", "role", role, "obj", obj, "act", act, "error", err)
		return Caller{}, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "access denied", "user_id", clm.UserID(), "role", role, "obj", obj, "act", act)
		return Caller{}, goerror.NewBusiness("Insufficient permissions", goerror.CodeForbidden)
	}

	return Caller{UserID: clm.UserID(), Email: clm.Email, Role: role}, nil
}
