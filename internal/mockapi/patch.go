package mockapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

var pathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`)

// pointerPath converts an RFC 6901 pointer to a gjson path.
func pointerPath(ptr string) (string, error) {
	if ptr == "" || ptr[0] != '/' {
		return "", fmt.Errorf("invalid pointer %q", ptr)
	}
	tt := strings.Split(ptr[1:], "/")
	for i, t := range tt {
		t = strings.ReplaceAll(t, "~1", "/")
		t = strings.ReplaceAll(t, "~0", "~")
		if t == "-" {
			tt[i] = "-1"
			continue
		}
		tt[i] = pathEscaper.Replace(t)
	}
	return strings.Join(tt, "."), nil
}

// applyPatch applies an RFC 6902 document to a JSON object.
func applyPatch(doc, patch []byte) ([]byte, error) {
	var ops []patchOp
	if err := json.Unmarshal(patch, &ops); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	for _, op := range ops {
		path, err := pointerPath(op.Path)
		if err != nil {
			return nil, err
		}
		switch op.Op {
		case "add", "replace":
			if op.Op == "replace" && !gjson.GetBytes(doc, path).Exists() {
				return nil, fmt.Errorf("replace: no value at %s", op.Path)
			}
			doc, err = sjson.SetRawBytes(doc, path, op.Value)
		case "remove":
			if !gjson.GetBytes(doc, path).Exists() {
				return nil, fmt.Errorf("remove: no value at %s", op.Path)
			}
			doc, err = sjson.DeleteBytes(doc, path)
		case "test":
			if !sameJSON(gjson.GetBytes(doc, path).Raw, string(op.Value)) {
				return nil, fmt.Errorf("test failed at %s", op.Path)
			}
		case "move", "copy":
			from, ferr := pointerPath(op.From)
			if ferr != nil {
				return nil, ferr
			}
			v := gjson.GetBytes(doc, from)
			if !v.Exists() {
				return nil, fmt.Errorf("%s: no value at %s", op.Op, op.From)
			}
			if op.Op == "move" {
				if doc, err = sjson.DeleteBytes(doc, from); err != nil {
					return nil, err
				}
			}
			doc, err = sjson.SetRawBytes(doc, path, []byte(v.Raw))
		default:
			return nil, fmt.Errorf("unsupported patch operation %q", op.Op)
		}
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", op.Op, op.Path, err)
		}
	}

	return doc, nil
}

func sameJSON(a, b string) bool {
	return reflect.DeepEqual(gjson.Parse(a).Value(), gjson.Parse(b).Value())
}
