package dao

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"
)

// PatchContentType is the media type of RFC 6902 documents.
const PatchContentType = "application/json-patch+json"

// GeneratePatch returns the RFC 6902 patch turning original into modified,
// or ErrNoChanges when they match.
func GeneratePatch(original, modified any) ([]byte, error) {
	patch, err := jsondiff.Compare(original, modified)
	if err != nil {
		return nil, fmt.Errorf("generate patch: %w", err)
	}
	if len(patch) == 0 {
		return nil, ErrNoChanges
	}

	bb, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	return bb, nil
}
