package rows

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// extractYAML mirrors the JSON rules: a top-level sequence of mappings, or
// a single mapping wrapped into a one-row sequence.
func extractYAML(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "yaml", Err: err}
	}

	var anyVal any
	if err := yaml.Unmarshal(data, &anyVal); err != nil {
		return Result{}, &ParseError{Kind: "yaml", Err: err}
	}

	var objects []map[string]any
	switch v := anyVal.(type) {
	case []any:
		for _, elem := range v {
			obj, ok := toStringKeyMap(elem)
			if !ok {
				return Result{}, &ParseError{Kind: "yaml", Err: fmt.Errorf("sequence element is not a mapping")}
			}
			objects = append(objects, obj)
		}
	default:
		obj, ok := toStringKeyMap(v)
		if !ok {
			return Result{}, &ParseError{Kind: "yaml", Err: fmt.Errorf("top-level YAML value must be a sequence or mapping")}
		}
		objects = []map[string]any{obj}
	}

	flattened := make([]map[string]any, len(objects))
	for i, obj := range objects {
		flattened[i] = flattenJSONObject(obj)
	}

	return Result{Rows: alignRowKeys(flattened), DetectedType: "yaml", Parsed: anyVal}, nil
}

// toStringKeyMap coerces yaml.v3's map[string]interface{} decode result (it
// decodes mappings with string keys directly, unlike yaml.v2's
// map[interface{}]interface{}) into the map[string]any shape the row
// extractors share.
func toStringKeyMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
