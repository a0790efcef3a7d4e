package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"golang.org/x/oauth2"
)

func (s *Usecase) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	ctx, span := s.startSpan(ctx, "ListAccounts")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActRead); err != nil {
		return nil, err
	}

	accounts, err := s.repoDB.ListAccounts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list oauth accounts", "error", err)
		return nil, goerror.NewServer(err)
	}

	return accounts, nil
}

// RevokeAccount forgets the grant locally. The seller can still revoke the
// app on the marketplace side.
func (s *Usecase) RevokeAccount(ctx context.Context, id int64) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "RevokeAccount")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	a, err := s.repoDB.Revoke(ctx, id)
	return accountResult(ctx, "revoke oauth account", id, a, err)
}

// RefreshAccount trades the stored refresh token for a fresh access token and
// persists a rotated refresh token. A grant rejected by the provider is
// revoked.
func (s *Usecase) RefreshAccount(ctx context.Context, id int64) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "RefreshAccount")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite); err != nil {
		return nil, err
	}

	a, err := s.repoDB.GetAccount(ctx, id)
	if _, err := accountResult(ctx, "get oauth account", id, a, err); err != nil {
		return nil, err
	}
	if a.Status != entity.AccountStatusActive || len(a.RefreshTokenEnc) == 0 {
		return nil, goerror.NewBusiness("Account is not active", goerror.CodeConflict,
			goerror.WithReason("ACCOUNT_NOT_ACTIVE"), goerror.WithContext("status", a.Status))
	}

	conf, ok := s.provider(a.Provider)
	if !ok {
		return nil, goerror.NewBusiness("Provider is not configured", goerror.CodeConflict, goerror.WithReason("UNKNOWN_PROVIDER"))
	}

	plain, err := s.crypt.Decrypt(a.RefreshTokenEnc, s.scope(a))
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt refresh token", "account_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: string(plain)}).Token()
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.ErrorCode == "invalid_grant" {
		slog.WarnContext(ctx, "refresh token rejected, revoking account", "account_id", id)
		if _, err := s.repoDB.Revoke(ctx, id); err != nil {
			slog.ErrorContext(ctx, "failed to repo revoke oauth account", "account_id", id, "error", err)
		}
		return nil, goerror.NewBusiness("Marketplace revoked the access", goerror.CodeConflict, goerror.WithReason("ACCOUNT_REVOKED"))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to refresh oauth token", "account_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	var enc []byte
	if tok.RefreshToken != "" && tok.RefreshToken != string(plain) {
		if enc, err = s.crypt.Encrypt([]byte(tok.RefreshToken), s.scope(a)); err != nil {
			slog.ErrorContext(ctx, "failed to encrypt refresh token", "account_id", id, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	a, err = s.repoDB.Rotate(ctx, id, enc, expiry(tok))
	return accountResult(ctx, "rotate oauth account", id, a, err)
}

type RunCleanupPendingOutput struct {
	Deleted int64 `json:"deleted"`
}

// RunCleanupPending drops authorizations whose state expired.
func (s *Usecase) RunCleanupPending(ctx context.Context) (*RunCleanupPendingOutput, error) {
	ctx, span := s.startSpan(ctx, "RunCleanupPending")
	defer span.End()

	n, err := s.repoDB.DeleteStalePending(ctx, s.clock.Now().Add(-stateTTL))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete stale pending oauth", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RunCleanupPendingOutput{Deleted: n}, nil
}
