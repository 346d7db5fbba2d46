package upstream

// The upstream API is not consistent about list shapes: some endpoints return
// a bare array, some `{data: [...], meta: {total: n}}`, and a few wrap the
// items in a named collection (`{employees: [...]}`). Normalization happens
// here, once, at the client boundary; unrecognized shapes fail loudly instead
// of leaking shape-sniffing into every handler.

import (
	"bytes"
	"encoding/json"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

// List is the normalized envelope every list endpoint resolves to.
type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type dataMeta struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// decodeList normalizes a raw upstream list response. collection is an
// optional JMESPath expression naming where the items live for endpoints
// that use a named wrapper ("employees", "data.doctors", ...).
func decodeList[T any](raw json.RawMessage, collection string) (List[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return List[T]{}, apperrors.Upstream("empty list response")
	}

	// Bare array.
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return List[T]{}, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "decode list items")
		}
		return List[T]{Items: items, Total: len(items)}, nil
	}

	// {data: [...], meta: {total}} envelope.
	var dm dataMeta
	if err := json.Unmarshal(trimmed, &dm); err == nil && len(bytes.TrimSpace(dm.Data)) > 0 {
		var items []T
		if err := json.Unmarshal(dm.Data, &items); err == nil {
			total := dm.Meta.Total
			if total == 0 {
				total = len(items)
			}
			return List[T]{Items: items, Total: total}, nil
		}
	}

	// Named collection, located by JMESPath.
	if collection != "" {
		if lst, ok := searchCollection[T](trimmed, collection); ok {
			return lst, nil
		}
	}

	return List[T]{}, apperrors.Upstreamf("unrecognized list shape for collection %q", collection)
}

func searchCollection[T any](raw []byte, expr string) (List[T], bool) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return List[T]{}, false
	}
	found, err := jmespath.Search(expr, doc)
	if err != nil || found == nil {
		return List[T]{}, false
	}

	// Round-trip through JSON to coerce the untyped result into []T.
	encoded, err := json.Marshal(found)
	if err != nil {
		return List[T]{}, false
	}
	var items []T
	if err := json.Unmarshal(encoded, &items); err != nil {
		return List[T]{}, false
	}
	return List[T]{Items: items, Total: len(items)}, true
}
