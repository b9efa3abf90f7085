package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/model"
)

// DefaultExportRows is the page size used to walk a whole resource.
const DefaultExportRows = 100

// Resource is the accessor of one backend collection.
type Resource[T Object] struct {
	rid        ResourceID
	client     *api.Client
	cache      *ResourceCache
	searchKeys []string
}

// NewResource returns an accessor for rid. The search keys receive the free
// text search of list queries.
func NewResource[T Object](c *api.Client, rid ResourceID, cache *ResourceCache, searchKeys ...string) *Resource[T] {
	return &Resource[T]{
		rid:        rid,
		client:     c,
		cache:      cache,
		searchKeys: searchKeys,
	}
}

// ResourceID returns the resource identifier.
func (r *Resource[T]) ResourceID() ResourceID {
	return r.rid
}

// PageRequest maps a table query, searching the resource search keys.
func (r *Resource[T]) PageRequest(q model.Query) PageRequest {
	return NewPageRequest(q, r.searchKeys)
}

// List fetches the page described by a table query.
func (r *Resource[T]) List(ctx context.Context, q model.Query) (model.Page[T], error) {
	return r.ListPage(ctx, r.PageRequest(q))
}

// ListPage fetches one page.
func (r *Resource[T]) ListPage(ctx context.Context, pr PageRequest) (model.Page[T], error) {
	params := pr.Encode()
	key := r.cacheKey(params)
	if v, ok := r.cache.Get(key); ok {
		if pg, ok := v.(model.Page[T]); ok {
			return pg, nil
		}
	}

	env, err := api.Get[ListContent[T]](ctx, r.client, r.rid.Path, api.RequestOptions{Query: params})
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("list %s: %w", r.rid, err)
	}
	pg := env.Content.ToPage()
	r.cache.Set(key, pg)

	return pg, nil
}

// All walks every page of the resource.
func (r *Resource[T]) All(ctx context.Context, pr PageRequest) ([]T, error) {
	if pr.Rows <= 0 {
		pr.Rows = DefaultExportRows
	}
	pr.Page = 1

	var out []T
	for {
		pg, err := r.ListPage(ctx, pr)
		if err != nil {
			return nil, err
		}
		out = append(out, pg.Items...)
		if pr.Page >= pg.TotalPages || len(pg.Items) == 0 {
			return out, nil
		}
		pr.Page++
	}
}

// Get fetches a record by id.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrEmptyID
	}
	env, err := api.Get[T](ctx, r.client, r.itemPath(id), api.RequestOptions{})
	if err != nil {
		return zero, fmt.Errorf("get %s %s: %w", r.rid, id, err)
	}

	return env.Content, nil
}

// Create stores a new record.
func (r *Resource[T]) Create(ctx context.Context, o T) (T, error) {
	var zero T
	env, err := api.Post[T](ctx, r.client, r.rid.Path, o, api.RequestOptions{})
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", r.rid, err)
	}
	r.invalidate()

	return env.Content, nil
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, id string, o T) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrEmptyID
	}
	env, err := api.Put[T](ctx, r.client, r.itemPath(id), o, api.RequestOptions{})
	if err != nil {
		return zero, fmt.Errorf("update %s %s: %w", r.rid, id, err)
	}
	r.invalidate()

	return env.Content, nil
}

// Patch sends the changes between two versions of a record as a JSON patch.
// ErrNoChanges is returned without calling the backend when both match.
func (r *Resource[T]) Patch(ctx context.Context, id string, original, modified any) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrEmptyID
	}
	patch, err := GeneratePatch(original, modified)
	if err != nil {
		return zero, err
	}
	env, err := api.Request[T](ctx, r.client, r.itemPath(id), api.RequestOptions{
		Method:  http.MethodPatch,
		Headers: map[string]string{"Content-Type": PatchContentType},
		Body:    patch,
	})
	if err != nil {
		return zero, fmt.Errorf("patch %s %s: %w", r.rid, id, err)
	}
	r.invalidate()

	return env.Content, nil
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, err := api.Delete[json.RawMessage](ctx, r.client, r.itemPath(id), api.RequestOptions{}); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.rid, id, err)
	}
	r.invalidate()

	return nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.rid.Path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) cacheKey(params url.Values) string {
	return r.rid.Name + ":" + params.Encode()
}

func (r *Resource[T]) invalidate() {
	r.cache.InvalidatePrefix(r.rid.Name + ":")
}
