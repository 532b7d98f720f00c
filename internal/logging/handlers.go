package logging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDKey is the attribute carrying the chi request id of an HTTP call.
const RequestIDKey = "request_id"

// AttrFunc returns attributes computed when a record is written, such as
// process uptime.
type AttrFunc func() []slog.Attr

// fanout delivers every record to each enabled sink. A failing sink does not
// stop the others; their errors are joined.
type fanout []slog.Handler

func newFanout(sinks ...slog.Handler) fanout {
	out := make(fanout, 0, len(sinks))
	for _, h := range sinks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// dynamicHandler appends per-record attributes: those returned by attrs and
// the request id chi stored in the context, if any.
type dynamicHandler struct {
	next  slog.Handler
	attrs AttrFunc
}

func (h dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.attrs != nil {
		r.AddAttrs(h.attrs()...)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	return h.next.Handle(ctx, r)
}

func (h dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return dynamicHandler{next: h.next.WithAttrs(attrs), attrs: h.attrs}
}

func (h dynamicHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return dynamicHandler{next: h.next.WithGroup(name), attrs: h.attrs}
}
