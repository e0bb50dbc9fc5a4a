// Package metrics emits the client's standard metric shapes to a StatsD sink.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

// APICall describes one round-trip to the image-sharing API.
type APICall struct {
	Method   string
	Endpoint string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall counts and times an API round-trip. Endpoint should be a
// route template, not a concrete path, to keep tag cardinality bounded.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"method":   in.Method,
		"endpoint": in.Endpoint,
		"result":   ResultSuccess,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = ErrorClass(in.Err)
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.request.duration", in.Duration, CloneTags(tags))
	}
}

// SyncEvent describes one gallery synchronizer operation.
type SyncEvent struct {
	Op     string // load or delete
	Result string
	Items  int
	Err    error
}

// EmitSync counts a synchronizer operation and, for applied loads, gauges the
// collection size.
func EmitSync(sink statsd.Sink, in SyncEvent) {
	if sink == nil {
		return
	}
	tags := map[string]string{"op": in.Op, "result": in.Result}
	if in.Err != nil {
		tags["error_class"] = ErrorClass(in.Err)
	}
	sink.Count("gallery.sync", 1, tags)
	if in.Op == "load" && in.Result == ResultSuccess {
		sink.Gauge("gallery.items", float64(in.Items), nil)
	}
}

// ErrorClass returns a low-cardinality name for err: the AppError code when
// there is one, "canceled" or "timeout" for context errors, else "other".
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return "other"
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
