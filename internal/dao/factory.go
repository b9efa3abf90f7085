// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package dao

import (
	"time"

	"github.com/absensi/absensi/internal/api"
)

// Factory hands out the accessors sharing one client and one cache.
type Factory struct {
	client *api.Client
	cache  *ResourceCache
}

// NewFactory returns a factory caching list responses for ttl.
func NewFactory(c *api.Client, ttl time.Duration) *Factory {
	return &Factory{
		client: c,
		cache:  NewResourceCache(ttl),
	}
}

// Client returns the backend client.
func (f *Factory) Client() *api.Client {
	return f.client
}

// Cache returns the shared list cache.
func (f *Factory) Cache() *ResourceCache {
	return f.cache
}

// Users returns the user accessor.
func (f *Factory) Users() *Resource[User] {
	return NewResource[User](f.client, UsersRID, f.cache, "name", "email")
}

// Roles returns the role accessor.
func (f *Factory) Roles() *Resource[Role] {
	return NewResource[Role](f.client, RolesRID, f.cache, "name")
}

// Divisions returns the division accessor.
func (f *Factory) Divisions() *Resource[Division] {
	return NewResource[Division](f.client, DivisionsRID, f.cache, "name")
}

// Attendance returns the attendance records accessor.
func (f *Factory) Attendance() *Resource[Attendance] {
	return NewResource[Attendance](f.client, AttendanceRID, f.cache, "internName", "email")
}

// Auth returns the authentication accessor.
func (f *Factory) Auth() *Auth {
	return NewAuth(f.client)
}

// AttendanceActions returns the check-in and leave accessor.
func (f *Factory) AttendanceActions() *AttendanceActions {
	return NewAttendanceActions(f.client, f.cache)
}

// Dashboard returns the dashboard accessor.
func (f *Factory) Dashboard() *Dashboard {
	return NewDashboard(f.client)
}
