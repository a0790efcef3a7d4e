package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/marketplace/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Authorize redirects to the marketplace consent page.
// @Summary Connect a marketplace account
// @Tags Marketplace
// @Security BearerAuth
// @Param provider query string true "Provider name"
// @Param reauth query bool false "Ask consent again with extended scopes"
// @Success 302
// @Router /api/v1/marketplace/oauth/authorize [get]
func (h *HTTPEndpoint) Authorize(r *router.Request) (any, error) {
	u, err := h.uc.Authorize(r.Context(), usecase.AuthorizeInput{
		Provider: r.GetQuery("provider"),
		Reauth:   r.GetQueryBool("reauth"),
	})
	if err != nil {
		return nil, err
	}

	return router.Redirect{URL: u}, nil
}

// @Router /api/v1/marketplace/oauth/callback [get]
func (h *HTTPEndpoint) Callback(r *router.Request) (any, error) {
	return router.Redirect{URL: h.uc.Callback(r.Context(), usecase.CallbackInput{
		State: r.GetQuery("state"),
		Code:  r.GetQuery("code"),
		Error: r.GetQuery("error"),
	})}, nil
}

// @Router /api/v1/marketplace/accounts [get]
func (h *HTTPEndpoint) ListAccounts(r *router.Request) (any, error) {
	accounts, err := h.uc.ListAccounts(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return resp, nil
}

// @Router /api/v1/marketplace/accounts/{id} [delete]
func (h *HTTPEndpoint) RevokeAccount(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	a, err := h.uc.RevokeAccount(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toAccountResponse(*a), nil
}

// @Router /api/v1/marketplace/accounts/{id}/refresh [post]
func (h *HTTPEndpoint) RefreshAccount(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	a, err := h.uc.RefreshAccount(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toAccountResponse(*a), nil
}

// IngestRefund books a marketplace refund.
// @Summary Ingest a refund
// @Tags Marketplace
// @Security BearerAuth
// @Param request body IngestRefundRequest true "Refund line"
// @Success 201 {object} router.successResponse{data=IngestRefundResponse}
// @Failure 404 {object} router.errorResponse
// @Failure 409 {object} router.errorResponse "DUPLICATE_REFUND"
// @Router /api/v1/marketplace/refunds [post]
func (h *HTTPEndpoint) IngestRefund(r *router.Request) (any, error) {
	var req IngestRefundRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	id, err := h.uc.IngestRefund(r.Context(), usecase.IngestRefundInput{
		Provider:   req.Provider,
		OrderID:    req.OrderID,
		RefundID:   req.RefundID,
		SKU:        req.SKU,
		Quantity:   req.Quantity,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Reason:     req.Reason,
		RefundedAt: req.RefundedAt,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: IngestRefundResponse{ID: id}}, nil
}
