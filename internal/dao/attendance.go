package dao

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/absensi/absensi/internal/api"
)

// AttendanceActions records the presence of the logged in intern.
type AttendanceActions struct {
	client *api.Client
	cache  *ResourceCache
}

// NewAttendanceActions returns the attendance actions accessor.
func NewAttendanceActions(c *api.Client, cache *ResourceCache) *AttendanceActions {
	return &AttendanceActions{client: c, cache: cache}
}

// Today returns the record of the day, a zero record when none exists yet.
func (a *AttendanceActions) Today(ctx context.Context) (Attendance, error) {
	env, err := api.Get[Attendance](ctx, a.client, AttendanceRID.Path+"/today", api.RequestOptions{})
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return Attendance{}, nil
		}
		return Attendance{}, fmt.Errorf("today attendance: %w", err)
	}
	return env.Content, nil
}

// CheckIn marks the intern present.
func (a *AttendanceActions) CheckIn(ctx context.Context) (*api.Envelope[Attendance], error) {
	return a.post(ctx, "check-in", nil)
}

// CheckOut closes the day of a present intern.
func (a *AttendanceActions) CheckOut(ctx context.Context) (*api.Envelope[Attendance], error) {
	return a.post(ctx, "check-out", nil)
}

// MarkSick records a sick leave.
func (a *AttendanceActions) MarkSick(ctx context.Context, reason string) (*api.Envelope[Attendance], error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return a.post(ctx, "sick", ReasonRequest{Reason: reason})
}

// RequestPermit submits a permit request.
func (a *AttendanceActions) RequestPermit(ctx context.Context, reason string) (*api.Envelope[Attendance], error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return a.post(ctx, "permit", ReasonRequest{Reason: reason})
}

func (a *AttendanceActions) post(ctx context.Context, action string, body any) (*api.Envelope[Attendance], error) {
	env, err := api.Post[Attendance](ctx, a.client, AttendanceRID.Path+"/"+action, body, api.RequestOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	a.cache.InvalidatePrefix(AttendanceRID.Name + ":")

	return env, nil
}
