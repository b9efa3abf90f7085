package dao

import (
	"context"
	"encoding/json"

	"github.com/absensi/absensi/internal/model"
)

// Error represents a resource access error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNoChanges is returned when an update would not change a record.
	ErrNoChanges = Error("no changes detected")

	// ErrUnknownResource is returned for an unregistered resource name.
	ErrUnknownResource = Error("unknown resource")

	// ErrReasonRequired is returned when a sick or permit request has no reason.
	ErrReasonRequired = Error("please provide a reason")

	// ErrEmptyID is returned when a record id is blank.
	ErrEmptyID = Error("id cannot be empty")
)

// ResourceID identifies a backoffice resource.
type ResourceID struct {
	Name  string // e.g. "users"
	Path  string // endpoint, e.g. "/users"
	Title string // screen title
}

// String returns the resource name.
func (r ResourceID) String() string {
	return r.Name
}

// Predefined resources.
var (
	UsersRID      = ResourceID{Name: "users", Path: "/users", Title: "Manajemen User"}
	RolesRID      = ResourceID{Name: "roles", Path: "/roles", Title: "Manajemen Role"}
	DivisionsRID  = ResourceID{Name: "divisions", Path: "/divisions", Title: "Manajemen Divisi"}
	AttendanceRID = ResourceID{Name: "attendance", Path: "/attendances", Title: "Absensi"}
)

// Object is a record served by the backend.
type Object interface {
	GetID() string
	GetName() string
}

// Getter retrieves a single record.
type Getter[T Object] interface {
	Get(ctx context.Context, id string) (T, error)
}

// Accessor combines the read operations of a resource.
type Accessor[T Object] interface {
	Getter[T]
	model.Lister[T]
	ResourceID() ResourceID
}

// Nuker deletes records.
type Nuker interface {
	Delete(ctx context.Context, id string) error
}

// Meta is the paging metadata of a list response.
type Meta struct {
	Page       int `json:"page"`
	Rows       int `json:"rows"`
	TotalPages int `json:"totalPages"`
	TotalData  int `json:"totalData"`
}

// ListContent is the content of a list response.
type ListContent[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// ToPage converts a list response to a table page.
func (l ListContent[T]) ToPage() model.Page[T] {
	return model.Page[T]{
		Items:      l.Items,
		Page:       l.Meta.Page,
		PageSize:   l.Meta.Rows,
		TotalPages: l.Meta.TotalPages,
		TotalData:  l.Meta.TotalData,
	}
}

// ToMap converts a record to its JSON object form.
func ToMap(o any) (map[string]any, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
