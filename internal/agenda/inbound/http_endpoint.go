package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/agenda/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListEvents returns the caller's events between from and to.
// @Summary List agenda events
// @Tags Agenda
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param include_archived query bool false "Include archived events"
// @Success 200 {object} router.successResponse{data=[]EventResponse}
// @Router /api/v1/agenda/events [get]
func (h *HTTPEndpoint) ListEvents(r *router.Request) (any, error) {
	items, err := h.uc.ListEvents(r.Context(), usecase.ListEventsInput{
		From:            r.GetQuery("from"),
		To:              r.GetQuery("to"),
		IncludeArchived: r.GetQueryBool("include_archived"),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]EventResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toEventResponse(item))
	}

	return resp, nil
}

// CreateEvent creates an event and schedules its reminders.
// @Summary Create agenda event
// @Tags Agenda
// @Security BearerAuth
// @Param request body EventRequest true "Event payload"
// @Success 201 {object} router.successResponse{data=EventResponse}
// @Router /api/v1/agenda/events [post]
func (h *HTTPEndpoint) CreateEvent(r *router.Request) (any, error) {
	var req EventRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ev, err := h.uc.CreateEvent(r.Context(), usecase.CreateEventInput{
		Date:        req.Date,
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Important:   req.Important,
	})
	if err != nil {
		return nil, err
	}

	return router.Created{Data: toEventResponse(*ev)}, nil
}

// @Router /api/v1/agenda/events/{id} [put]
func (h *HTTPEndpoint) UpdateEvent(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req EventRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ev, err := h.uc.UpdateEvent(r.Context(), usecase.UpdateEventInput{
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

	return toEventResponse(*ev), nil
}

// @Router /api/v1/agenda/events/{id}/status [patch]
func (h *HTTPEndpoint) UpdateEventStatus(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req StatusRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ev, err := h.uc.UpdateEventStatus(r.Context(), usecase.UpdateEventStatusInput{ID: id, Status: req.Status})
	if err != nil {
		return nil, err
	}

	return toEventResponse(*ev), nil
}

// ArchiveEvent soft deletes an event.
// @Router /api/v1/agenda/events/{id} [delete]
func (h *HTTPEndpoint) ArchiveEvent(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	ev, err := h.uc.ArchiveEvent(r.Context(), usecase.ArchiveEventInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toEventResponse(*ev), nil
}

// ReminderAction answers a reminder with vu, reporte or fait.
// @Router /api/v1/agenda/events/{id}/reminder-action [post]
func (h *HTTPEndpoint) ReminderAction(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ReminderActionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.ReminderAction(r.Context(), usecase.ReminderActionInput{
		ID:      id,
		Action:  req.Action,
		Minutes: req.Minutes,
	})
	if err != nil {
		return nil, err
	}

	return ReminderActionResponse{
		Event:     toEventResponse(out.Event),
		Action:    out.Action,
		NextRunAt: out.NextRunAt,
		Cancelled: out.Cancelled,
	}, nil
}

// RunReminders delivers due reminders. Guarded by the cron secret.
// @Router /api/v1/agenda/reminders/run [post]
func (h *HTTPEndpoint) RunReminders(r *router.Request) (any, error) {
	return h.uc.RunReminders(r.Context())
}
