package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/consignment/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListMoves returns ledger lines, newest first.
// @Summary List consignment moves
// @Tags Consignment
// @Security BearerAuth
// @Param stock_id query int false "Stock filter"
// @Param product_id query int false "Product filter"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} router.successResponse{data=[]MoveResponse}
// @Failure 403 {object} router.errorResponse
// @Router /api/v1/consignments/moves [get]
func (h *HTTPEndpoint) ListMoves(r *router.Request) (any, error) {
	stockID, err := r.GetQueryInt64("stock_id")
	if err != nil {
		return nil, err
	}
	productID, err := r.GetQueryInt64("product_id")
	if err != nil {
		return nil, err
	}
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListMoves(r.Context(), usecase.ListMovesInput{
		StockID:   stockID,
		ProductID: productID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]MoveResponse, 0, len(out.Items))
	for _, m := range out.Items {
		items = append(items, toMoveResponse(m))
	}

	return router.List[MoveResponse]{Items: items, Total: out.Total, Limit: out.Limit, Offset: out.Offset}, nil
}

// @Router /api/v1/consignments/moves [post]
func (h *HTTPEndpoint) CreateMove(r *router.Request) (any, error) {
	var req CreateMoveRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	m, err := h.uc.CreateMove(r.Context(), usecase.CreateMoveInput{
		StockID:       req.StockID,
		ProductID:     req.ProductID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		Amount:        req.Amount,
		InvoiceItemID: req.InvoiceItemID,
		Note:          req.Note,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toMoveResponse(*m)}, nil
}

// @Router /api/v1/consignments/balances [get]
func (h *HTTPEndpoint) ListBalances(r *router.Request) (any, error) {
	stockID, err := r.GetQueryInt64("stock_id")
	if err != nil {
		return nil, err
	}

	return h.uc.ListBalances(r.Context(), usecase.ListBalancesInput{StockID: stockID})
}

// @Router /api/v1/consignments/unpaid/run [post]
func (h *HTTPEndpoint) RunCheckUnpaid(r *router.Request) (any, error) {
	return h.uc.RunCheckUnpaid(r.Context())
}

// @Router /api/v1/consignments/invoices/sync [post]
func (h *HTTPEndpoint) RunSyncInvoices(r *router.Request) (any, error) {
	return h.uc.RunSyncInvoices(r.Context())
}
