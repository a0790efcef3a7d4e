package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/roadmap/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// @Router /api/v1/roadmap/entries [get]
func (h *HTTPEndpoint) ListEntries(r *router.Request) (any, error) {
	items, err := h.uc.ListEntries(r.Context(), usecase.ListEntriesInput{
		From:            r.GetQuery("from"),
		To:              r.GetQuery("to"),
		IncludeArchived: r.GetQueryBool("include_archived"),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]EntryResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toEntryResponse(item))
	}
	return resp, nil
}

// @Router /api/v1/roadmap/entries [post]
func (h *HTTPEndpoint) CreateEntry(r *router.Request) (any, error) {
	var req EntryRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	e, err := h.uc.CreateEntry(r.Context(), usecase.SaveEntryInput{
		Date:        req.Date,
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Important:   req.Important,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toEntryResponse(*e)}, nil
}

// @Router /api/v1/roadmap/entries/{id} [put]
func (h *HTTPEndpoint) UpdateEntry(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req EntryRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	e, err := h.uc.UpdateEntry(r.Context(), usecase.SaveEntryInput{
		ID:          id,
		Date:        req.Date,
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Important:   req.Important,
	})
	if err != nil {
		return nil, err
	}

	return toEntryResponse(*e), nil
}

// @Router /api/v1/roadmap/entries/{id}/status [patch]
func (h *HTTPEndpoint) UpdateEntryStatus(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req StatusRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	e, err := h.uc.UpdateEntryStatus(r.Context(), usecase.UpdateEntryStatusInput{ID: id, Status: req.Status})
	if err != nil {
		return nil, err
	}

	return toEntryResponse(*e), nil
}

// @Router /api/v1/roadmap/entries/{id} [delete]
func (h *HTTPEndpoint) ArchiveEntry(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	e, err := h.uc.ArchiveEntry(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toEntryResponse(*e), nil
}

// @Router /api/v1/roadmap/templates [get]
func (h *HTTPEndpoint) ListTemplates(r *router.Request) (any, error) {
	items, err := h.uc.ListTemplates(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toTemplateResponse(item))
	}
	return resp, nil
}

// @Router /api/v1/roadmap/templates [post]
func (h *HTTPEndpoint) CreateTemplate(r *router.Request) (any, error) {
	var req TemplateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	t, err := h.uc.CreateTemplate(r.Context(), usecase.CreateTemplateInput{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Important:   req.Important,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toTemplateResponse(*t)}, nil
}

// @Router /api/v1/roadmap/templates/{id} [delete]
func (h *HTTPEndpoint) DeleteTemplate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DeleteTemplate(r.Context(), id)
}

// ApplyTemplate creates an entry on the requested date from a template.
// @Router /api/v1/roadmap/templates/{id}/apply [post]
func (h *HTTPEndpoint) ApplyTemplate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ApplyTemplateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	e, err := h.uc.ApplyTemplate(r.Context(), usecase.ApplyTemplateInput{TemplateID: id, Date: req.Date})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toEntryResponse(*e)}, nil
}

// @Router /api/v1/roadmap/notifications/run [post]
func (h *HTTPEndpoint) RunNotifications(r *router.Request) (any, error) {
	return h.uc.RunNotifications(r.Context())
}
