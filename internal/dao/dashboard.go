package dao

import (
	"context"
	"fmt"

	"github.com/absensi/absensi/internal/api"
)

// Dashboard reads the daily summary.
type Dashboard struct {
	client *api.Client
}

// NewDashboard returns the dashboard accessor.
func NewDashboard(c *api.Client) *Dashboard {
	return &Dashboard{client: c}
}

// Statistics returns the counters of the day.
func (d *Dashboard) Statistics(ctx context.Context) (Statistic, error) {
	env, err := api.Get[Statistic](ctx, d.client, "/dashboard/statistics", api.RequestOptions{})
	if err != nil {
		return Statistic{}, fmt.Errorf("statistics: %w", err)
	}
	return env.Content, nil
}
