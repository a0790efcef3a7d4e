package router

import "net/http"

// Created wraps a payload so it is sent with 201.
type Created struct {
	Data any
}

func (c Created) StatusCode() int { return http.StatusCreated }
func (c Created) Payload() any    { return c.Data }

// Redirect sends a 302 to URL instead of a JSON body.
type Redirect struct {
	URL string
}

func (r Redirect) RedirectURL() string { return r.URL }

// List carries a page of items with paging metadata.
type List[T any] struct {
	Items  []T
	Total  int64
	Limit  int32
	Offset int32
}

func (l List[T]) Payload() any {
	if l.Items == nil {
		return []T{}
	}
	return l.Items
}

func (l List[T]) Meta() map[string]any {
	return map[string]any{"total": l.Total, "limit": l.Limit, "offset": l.Offset}
}
