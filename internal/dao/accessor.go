package dao

import (
	"fmt"
	"sort"
	"sync"
)

var (
	resources   = make(map[string]ResourceID)
	resourcesMx sync.RWMutex
)

func init() {
	for _, rid := range []ResourceID{UsersRID, RolesRID, DivisionsRID, AttendanceRID} {
		RegisterResource(rid)
	}
}

// RegisterResource adds a resource to the registry.
func RegisterResource(rid ResourceID) {
	resourcesMx.Lock()
	defer resourcesMx.Unlock()
	resources[rid.Name] = rid
}

// ResourceFor returns the registered resource of the given name.
func ResourceFor(name string) (ResourceID, error) {
	resourcesMx.RLock()
	defer resourcesMx.RUnlock()

	rid, ok := resources[name]
	if !ok {
		return ResourceID{}, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return rid, nil
}

// ListResources returns the registered resources sorted by name.
func ListResources() []ResourceID {
	resourcesMx.RLock()
	defer resourcesMx.RUnlock()

	rids := make([]ResourceID, 0, len(resources))
	for _, rid := range resources {
		rids = append(rids, rid)
	}
	sort.Slice(rids, func(i, j int) bool {
		return rids[i].Name < rids[j].Name
	})
	return rids
}
