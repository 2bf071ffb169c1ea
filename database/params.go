package database

import "sort"

// normalizeArgs prepares caller-supplied query arguments for a positional
// wire protocol. Arguments pass through unchanged, except when the caller
// supplies exactly one map[string]any: the map is flattened to a positional
// slice ordered by key. Go randomizes map iteration, so sorted-key order is
// the deterministic stand-in for "mapping order"; statements must list their
// placeholders accordingly.
func normalizeArgs(args []any) []any {
	if len(args) == 1 {
		if named, ok := args[0].(map[string]any); ok {
			return flattenNamed(named)
		}
	}
	return args
}

func flattenNamed(named map[string]any) []any {
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(named))
	for _, k := range keys {
		out = append(out, named[k])
	}
	return out
}
