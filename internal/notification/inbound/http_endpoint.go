package inbound

import (
	"github.com/shandysiswandi/shopdesk/internal/notification/usecase"
	"github.com/shandysiswandi/shopdesk/internal/pkg/router"
	"github.com/shandysiswandi/shopdesk/internal/pkg/valueobject"
)

type HTTPEndpoint struct {
	uc uc
}

// ListInbox returns the user's notifications plus global ones.
// @Summary List inbox
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (all|read|unread)"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=[]NotificationResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/notification/inbox [get]
func (h *HTTPEndpoint) ListInbox(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ListInbox(r.Context(), usecase.ListInboxInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(out.Items))
	for _, item := range out.Items {
		md := item.Metadata
		if md == nil {
			md = valueobject.JSONMap{}
		}
		resp = append(resp, NotificationResponse{
			ID:        item.ID,
			UserID:    item.UserID,
			Type:      item.Type,
			Title:     item.Title,
			Message:   item.Message,
			Read:      item.Read,
			Metadata:  md,
			CreatedAt: item.CreatedAt,
		})
	}

	return router.List[NotificationResponse]{Items: resp, Total: out.Total, Limit: out.Limit, Offset: out.Offset}, nil
}

// CountUnread returns the number of unread notifications.
// @Router /api/v1/notification/inbox/unread-count [get]
func (h *HTTPEndpoint) CountUnread(r *router.Request) (any, error) {
	n, err := h.uc.CountUnread(r.Context())
	if err != nil {
		return nil, err
	}

	return UnreadCountResponse{Unread: n}, nil
}

// MarkRead marks a notification as read. Global rows are read for everyone.
// @Router /api/v1/notification/inbox/{id}/read [patch]
func (h *HTTPEndpoint) MarkRead(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.MarkRead(r.Context(), usecase.MarkReadInput{ID: id})
}

// MarkAllRead marks every visible notification as read.
// @Router /api/v1/notification/inbox/read-all [put]
func (h *HTTPEndpoint) MarkAllRead(r *router.Request) (any, error) {
	n, err := h.uc.MarkAllRead(r.Context())
	if err != nil {
		return nil, err
	}

	return MarkAllReadResponse{Updated: n}, nil
}

// Delete soft deletes a notification owned by the user.
// @Router /api/v1/notification/inbox/{id} [delete]
func (h *HTTPEndpoint) Delete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Delete(r.Context(), usecase.DeleteInput{ID: id})
}
