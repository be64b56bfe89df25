package builtin

import "github.com/pronetheia/agenthub/internal/util"

// validate checks params against a JSON schema. Shared by all builtin tools.
func validate(params, schema map[string]any) error {
	return util.ValidateParameters(params, schema)
}

// stringParam extracts an optional string parameter, returning fallback when
// absent or not a string.
func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
