package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
)

const accountColumns = `id, user_id, provider, status, state, scope, refresh_token_enc, access_expires_at, created_at, updated_at`

func scanAccount(row pgx.Row) (entity.Account, error) {
	var a entity.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.Status, &a.State, &a.Scope,
		&a.RefreshTokenEnc, &a.AccessExpiresAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ListAccounts returns connected and revoked accounts. Pending rows are
// authorizations in flight and stay hidden.
func (s *DB) ListAccounts(ctx context.Context) (accounts []entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "ListAccounts")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		select `+accountColumns+`
		from oauth_tokens
		where status <> 'pending'
		order by provider, created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts = make([]entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *DB) GetAccount(ctx context.Context, id int64) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `select `+accountColumns+` from oauth_tokens where id = $1`, id))
	return a, s.mapError(err)
}

func (s *DB) CreatePending(ctx context.Context, in entity.CreatePending) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "CreatePending")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `
		insert into oauth_tokens (user_id, provider, status, state, scope)
		values ($1, $2, 'pending', $3, $4)
		returning `+accountColumns,
		in.UserID, in.Provider, in.State, in.Scope,
	))
	return a, s.mapError(err)
}

// TakePending consumes the pending row of state if it was created after
// since. The state is cleared so it cannot be replayed.
func (s *DB) TakePending(ctx context.Context, state string, since time.Time) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "TakePending")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `
		update oauth_tokens
		set state = null, updated_at = now()
		where state = $1 and status = 'pending' and created_at >= $2
		returning `+accountColumns,
		state, since,
	))
	return a, s.mapError(err)
}

func (s *DB) Activate(ctx context.Context, in entity.Activate) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "Activate")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `
		update oauth_tokens
		set status = 'active', scope = $2, refresh_token_enc = $3, access_expires_at = $4, updated_at = now()
		where id = $1
		returning `+accountColumns,
		in.ID, in.Scope, in.RefreshTokenEnc, in.AccessExpiresAt,
	))
	return a, s.mapError(err)
}

// Rotate stores a refreshed grant. A nil token keeps the current one.
func (s *DB) Rotate(ctx context.Context, id int64, tokenEnc []byte, expiresAt *time.Time) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "Rotate")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `
		update oauth_tokens
		set refresh_token_enc = coalesce($2, refresh_token_enc), access_expires_at = $3, updated_at = now()
		where id = $1 and status = 'active'
		returning `+accountColumns,
		id, tokenEnc, expiresAt,
	))
	return a, s.mapError(err)
}

func (s *DB) Revoke(ctx context.Context, id int64) (a entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "Revoke")
	defer func() { s.endSpan(span, err) }()

	a, err = scanAccount(s.conn.QueryRow(ctx, `
		update oauth_tokens
		set status = 'revoked', refresh_token_enc = null, access_expires_at = null, updated_at = now()
		where id = $1 and status <> 'pending'
		returning `+accountColumns,
		id,
	))
	return a, s.mapError(err)
}

// DeleteStalePending removes authorizations abandoned before until.
func (s *DB) DeleteStalePending(ctx context.Context, until time.Time) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteStalePending")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `delete from oauth_tokens where status = 'pending' and created_at < $1`, until)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
