package gate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DBRoles reads profiles.role.
type DBRoles struct {
	conn queryRower
}

func NewDBRoles(conn *pgxpool.Pool) *DBRoles {
	return &DBRoles{conn: conn}
}

func (d *DBRoles) Role(ctx context.Context, userID string) (string, error) {
	var role *string
	err := d.conn.QueryRow(ctx, `select role from profiles where id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return normalizeRole(role), nil
}

func normalizeRole(role *string) string {
	if role == nil || strings.TrimSpace(*role) == "" {
		return RoleUser
	}
	return strings.ToUpper(strings.TrimSpace(*role))
}

// CachedRoles keeps resolved roles in redis for ttl. Redis failures fall
// back to the wrapped resolver.
type CachedRoles struct {
	next   RoleResolver
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewCachedRoles(next RoleResolver, rdb redis.Cmdable, ttl time.Duration) *CachedRoles {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedRoles{next: next, rdb: rdb, ttl: ttl, prefix: "gate:role:"}
}

func (c *CachedRoles) Role(ctx context.Context, userID string) (string, error) {
	role, err := c.rdb.Get(ctx, c.prefix+userID).Result()
	if err == nil && role != "" {
		return role, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "role cache unavailable", "error", err)
	}

	role, err = c.next.Role(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, c.prefix+userID, role, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "failed to cache role", "error", err)
	}
	return role, nil
}

// Invalidate drops the cached role of userID.
func (c *CachedRoles) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, c.prefix+userID).Err()
}
