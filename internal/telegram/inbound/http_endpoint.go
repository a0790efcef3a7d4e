package inbound

import (
	"encoding/json"
	"io"

	"github.com/shandysiswandi/shopdesk/internal/pkg/goerror"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/telegram"
	"github.com/shandysiswandi/shopdesk/internal/telegram/usecase"
)

const headerWebhookSecret = "X-Telegram-Bot-Api-Secret-Token"

type HTTPEndpoint struct {
	uc uc
}

// @Summary List linked Telegram bots
// @Tags Telegram
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]BotResponse}
// @Router /api/v1/telegram/bots [get]
func (h *HTTPEndpoint) ListBots(r *router.Request) (any, error) {
	bots, err := h.uc.ListBots(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]BotResponse, 0, len(bots))
	for _, b := range bots {
		resp = append(resp, toBotResponse(b))
	}
	return resp, nil
}

// @Summary Link a Telegram bot
// @Tags Telegram
// @Security BearerAuth
// @Param request body LinkBotRequest true "Bot token and label"
// @Success 201 {object} router.successResponse{data=BotResponse}
// @Failure 500 {object} router.errorResponse "Telegram refused the webhook"
// @Router /api/v1/telegram/bots [post]
func (h *HTTPEndpoint) LinkBot(r *router.Request) (any, error) {
	var req LinkBotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	b, err := h.uc.LinkBot(r.Context(), usecase.LinkBotInput{BotToken: req.BotToken, Label: req.Label})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toBotResponse(*b)}, nil
}

// @Router /api/v1/telegram/bots/{id} [delete]
func (h *HTTPEndpoint) UnlinkBot(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.UnlinkBot(r.Context(), id)
}

// Webhook receives Telegram updates. Updates carry many fields the service
// does not read, so the body is decoded leniently.
// @Router /api/v1/telegram/webhook/{id} [post]
func (h *HTTPEndpoint) Webhook(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var update telegram.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&update); err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.Webhook(r.Context(), usecase.WebhookInput{
		BotID:  id,
		Secret: r.Header.Get(headerWebhookSecret),
		Update: update,
	})
}
