package rows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// extractJSON accepts a top-level array of objects, or a single object
// which is wrapped into a one-row array.
func extractJSON(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "json", Err: err}
	}

	var anyVal any
	if err := json.Unmarshal(data, &anyVal); err != nil {
		return Result{}, &ParseError{Kind: "json", Err: err}
	}

	var objects []map[string]any
	switch v := anyVal.(type) {
	case []any:
		for _, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return Result{}, &ParseError{Kind: "json", Err: fmt.Errorf("array element is not an object")}
			}
			objects = append(objects, obj)
		}
	case map[string]any:
		objects = []map[string]any{v}
	default:
		return Result{}, &ParseError{Kind: "json", Err: fmt.Errorf("top-level JSON value must be an array or object")}
	}

	flattened := make([]map[string]any, len(objects))
	for i, obj := range objects {
		flattened[i] = flattenJSONObject(obj)
	}

	return Result{Rows: alignRowKeys(flattened), DetectedType: "json", Parsed: anyVal}, nil
}

// flattenJSONObject keeps scalar fields as-is; nested maps/slices are
// dropped for the flat row projection used by the relational path — the
// structure classifier measures nesting depth on the unflattened payload
// this same extraction returns in Result.Parsed.
func flattenJSONObject(obj map[string]any) map[string]any {
	flat := make(map[string]any, len(obj))
	for k, v := range obj {
		switch v.(type) {
		case map[string]any, []any:
			continue
		default:
			flat[k] = v
		}
	}
	return flat
}
