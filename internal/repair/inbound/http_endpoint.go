package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/repair/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// ListRepairs returns tickets, newest first.
// @Summary List repairs
// @Tags Repair
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} router.successResponse{data=[]RepairResponse}
// @Failure 403 {object} router.errorResponse
// @Router /api/v1/repairs [get]
func (h *HTTPEndpoint) ListRepairs(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListRepairs(r.Context(), usecase.ListRepairsInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]RepairResponse, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, toRepairResponse(it))
	}

	return router.List[RepairResponse]{Items: items, Total: out.Total, Limit: out.Limit, Offset: out.Offset}, nil
}

// @Router /api/v1/repairs [post]
func (h *HTTPEndpoint) CreateRepair(r *router.Request) (any, error) {
	var req CreateRepairRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	rep, err := h.uc.CreateRepair(r.Context(), usecase.CreateRepairInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Device:        req.Device,
		Description:   req.Description,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toRepairResponse(*rep)}, nil
}

// @Router /api/v1/repairs/{id} [get]
func (h *HTTPEndpoint) GetRepair(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	d, err := h.uc.GetRepair(r.Context(), id)
	if err != nil {
		return nil, err
	}

	resp := DetailResponse{
		RepairResponse: toRepairResponse(d.Repair),
		Items:          make([]ItemResponse, 0, len(d.Items)),
		Photos:         make([]PhotoResponse, 0, len(d.Photos)),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, toItemResponse(it))
	}
	for _, p := range d.Photos {
		resp.Photos = append(resp.Photos, toPhotoResponse(p))
	}

	return resp, nil
}

// UpdateStatus moves a ticket through the workflow.
// @Summary Update repair status
// @Tags Repair
// @Security BearerAuth
// @Param request body UpdateStatusRequest true "Status payload"
// @Success 200 {object} router.successResponse{data=RepairResponse}
// @Failure 400 {object} router.errorResponse "INVALID_STATUS"
// @Failure 409 {object} router.errorResponse "PARTS_NOT_RESERVED or CANNOT_ARCHIVE"
// @Router /api/v1/repairs/{id}/status [patch]
func (h *HTTPEndpoint) UpdateStatus(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UpdateStatusRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	rep, err := h.uc.UpdateStatus(r.Context(), usecase.UpdateStatusInput{ID: id, Status: req.Status, Note: req.Note})
	if err != nil {
		return nil, err
	}

	return toRepairResponse(*rep), nil
}

// AttachPart reserves a part for the ticket.
// @Failure 422 {object} router.errorResponse "INSUFFICIENT_STOCK with context.candidates"
// @Router /api/v1/repairs/{id}/parts [post]
func (h *HTTPEndpoint) AttachPart(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AttachPartRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	item, err := h.uc.AttachPart(r.Context(), usecase.AttachPartInput{
		RepairID:  id,
		ProductID: req.ProductID,
		StockID:   req.StockID,
		Quantity:  req.Quantity,
		Serial:    req.Serial,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toItemResponse(*item)}, nil
}

// @Router /api/v1/repairs/{id}/parts [delete]
func (h *HTTPEndpoint) ReleaseParts(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	in := usecase.ReleasePartsInput{RepairID: id}
	if r.GetQuery("item_id") != "" {
		itemID, err := r.GetQueryInt64("item_id")
		if err != nil {
			return nil, err
		}
		in.ItemID = &itemID
	}

	n, err := h.uc.ReleaseParts(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return ReleasePartsResponse{Released: n}, nil
}

// @Router /api/v1/repairs/{id}/drying [post]
func (h *HTTPEndpoint) StartDrying(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req StartDryingRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	rep, err := h.uc.StartDrying(r.Context(), usecase.StartDryingInput{ID: id, Minutes: req.Minutes})
	if err != nil {
		return nil, err
	}

	return toRepairResponse(*rep), nil
}

// @Router /api/v1/repairs/{id}/drying/ack [post]
func (h *HTTPEndpoint) AcknowledgeDrying(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	rep, err := h.uc.AcknowledgeDrying(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toRepairResponse(*rep), nil
}

// UploadSignature stores the customer signature sent as multipart field file.
// @Accept multipart/form-data
// @Router /api/v1/repairs/{id}/signature [post]
func (h *HTTPEndpoint) UploadSignature(r *router.Request) (any, error) {
	in, closeFn, err := uploadInput(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	rep, err := h.uc.UploadSignature(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return toRepairResponse(*rep), nil
}

// @Accept multipart/form-data
// @Router /api/v1/repairs/{id}/photos [post]
func (h *HTTPEndpoint) UploadPhoto(r *router.Request) (any, error) {
	in, closeFn, err := uploadInput(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	p, err := h.uc.UploadPhoto(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toPhotoResponse(*p)}, nil
}

func uploadInput(r *router.Request) (usecase.UploadInput, func(), error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return usecase.UploadInput{}, nil, err
	}

	file, err := r.StreamSingleFile("file")
	if err != nil {
		return usecase.UploadInput{}, nil, err
	}

	in := usecase.UploadInput{RepairID: id, File: file.Body, Size: -1, ContentType: file.ContentType}
	return in, func() { _ = file.Body.Close() }, nil
}

// @Router /api/v1/repairs/{id}/invoice [post]
func (h *HTTPEndpoint) CreateInvoice(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	rep, err := h.uc.CreateInvoice(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toRepairResponse(*rep)}, nil
}

// @Router /api/v1/repairs-drying/run [post]
func (h *HTTPEndpoint) RunDryingCheck(r *router.Request) (any, error) {
	return h.uc.RunDryingCheck(r.Context())
}

// @Router /api/v1/repairs-digest/run [post]
func (h *HTTPEndpoint) RunDailyDigest(r *router.Request) (any, error) {
	return h.uc.RunDailyDigest(r.Context())
}
