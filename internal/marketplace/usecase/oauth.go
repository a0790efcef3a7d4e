package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shandysiswandi/shopdesk/internal/marketplace/entity"
	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"golang.org/x/oauth2"
)

type AuthorizeInput struct {
	Provider string `validate:"required,notblank"`
	Reauth   bool
}

// Authorize starts the OAuth dance and returns the provider URL to send the
// browser to. Reauth asks for consent again with the extended scopes and
// offline access.
func (s *Usecase) Authorize(ctx context.Context, in AuthorizeInput) (string, error) {
	ctx, span := s.startSpan(ctx, "Authorize")
	defer span.End()

	caller, err := s.gate.Authorize(ctx, gateObject, gate.ActWrite)
	if err != nil {
		return "", err
	}

	if err := s.validator.Validate(in); err != nil {
		return "", goerror.NewInvalidInput(err)
	}

	conf, ok := s.provider(in.Provider)
	if !ok {
		return "", goerror.NewInvalidInput(nil, "provider", "is not configured")
	}

	var opts []oauth2.AuthCodeOption
	if in.Reauth {
		if ext := s.extendedScopes(in.Provider); len(ext) > 0 {
			conf.Scopes = ext
		}
		opts = append(opts, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	}

	state := s.state.Generate()
	if _, err := s.repoDB.CreatePending(ctx, entity.CreatePending{
		UserID:   caller.UserID,
		Provider: in.Provider,
		State:    state,
		Scope:    strings.Join(conf.Scopes, " "),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create pending oauth", "provider", in.Provider, "error", err)
		return "", goerror.NewServer(err)
	}

	return conf.AuthCodeURL(state, opts...), nil
}

type CallbackInput struct {
	State string
	Code  string
	// Error is set by the provider when the user declined.
	Error string
}

// Callback completes the OAuth dance. It always answers with a browser
// redirect: the success page, or the failure page with a reason.
func (s *Usecase) Callback(ctx context.Context, in CallbackInput) string {
	ctx, span := s.startSpan(ctx, "Callback")
	defer span.End()

	if in.Error != "" {
		return s.failure(in.Error)
	}
	if in.State == "" || in.Code == "" {
		return s.failure("invalid_request")
	}

	pending, err := s.repoDB.TakePending(ctx, in.State, s.clock.Now().Add(-stateTTL))
	if errors.Is(err, goerror.ErrNotFound) {
		return s.failure("invalid_state")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo take pending oauth", "error", err)
		return s.failure("server_error")
	}

	conf, ok := s.provider(pending.Provider)
	if !ok {
		return s.failure("unknown_provider")
	}

	tok, err := conf.Exchange(ctx, in.Code)
	if err != nil {
		slog.WarnContext(ctx, "failed to exchange oauth code", "provider", pending.Provider, "account_id", pending.ID, "error", err)
		return s.failure("exchange_failed")
	}
	if tok.RefreshToken == "" {
		return s.failure("missing_refresh_token")
	}

	enc, err := s.crypt.Encrypt([]byte(tok.RefreshToken), s.scope(pending))
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt refresh token", "account_id", pending.ID, "error", err)
		return s.failure("server_error")
	}

	scope := pending.Scope
	if granted, _ := tok.Extra("scope").(string); granted != "" {
		scope = granted
	}

	if _, err := s.repoDB.Activate(ctx, entity.Activate{
		ID:              pending.ID,
		Scope:           scope,
		RefreshTokenEnc: enc,
		AccessExpiresAt: expiry(tok),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo activate oauth account", "account_id", pending.ID, "error", err)
		return s.failure("server_error")
	}

	slog.InfoContext(ctx, "marketplace account connected", "provider", pending.Provider, "account_id", pending.ID)
	return s.cfg.GetString("modules.marketplace.redirect_success")
}

func (s *Usecase) failure(reason string) string {
	base := s.cfg.GetString("modules.marketplace.redirect_failure")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "reason=" + url.QueryEscape(reason)
}
