package template

import (
	"strings"
)

// Context holds the data bindings available during rendering. Values may
// be strings, numbers, booleans, []any slices, or nested map[string]any.
// The engine never mutates a context; loop iteration overlays a derived
// context instead.
type Context map[string]any

// loopItemKey binds the current {{#each}} item in a derived context.
// Both "." and "this" read it.
const loopItemKey = "."

// Resolve evaluates a path expression against a context. The expression
// is a dotted path (a.b.c), optionally with a quoted default suffix
// (a.b.c | "fallback").
//
// Resolution order:
//  1. "." / "this" yield the current loop item directly.
//  2. The dotted path is walked on the context key by key.
//  3. If that walk comes up empty and the context carries a loop item,
//     the same path is retried against the item. This is deliberate
//     ergonomic sugar so {{field}} inside an {{#each}} body reaches
//     fields of the current item without {{this.field}}.
//  4. The parsed default, if any.
//
// The second return reports whether the path resolved at all; a key that
// is present with a nil value counts as resolved, so defaults apply only
// to genuinely missing data.
func Resolve(pathExpr string, ctx Context) (any, bool) {
	path, def, hasDefault := splitDefault(pathExpr)

	if path == "." || path == "this" {
		if item, ok := ctx[loopItemKey]; ok {
			return item, true
		}
		if item, ok := ctx["this"]; ok {
			return item, true
		}
		if hasDefault {
			return def, true
		}
		return nil, false
	}

	parts := strings.Split(path, ".")

	if v, ok := walk(ctx, parts); ok {
		return v, true
	}

	// Retry against the current loop item, if any
	if item, ok := ctx[loopItemKey]; ok {
		if v, ok := walkValue(item, parts); ok {
			return v, true
		}
	}

	if hasDefault {
		return def, true
	}
	return nil, false
}

// splitDefault separates an optional `| "default"` suffix from a path
// expression. The default is always a string literal; surrounding quotes
// are stripped.
func splitDefault(expr string) (path, def string, ok bool) {
	idx := strings.Index(expr, "|")
	if idx < 0 {
		return strings.TrimSpace(expr), "", false
	}
	path = strings.TrimSpace(expr[:idx])
	def = strings.TrimSpace(expr[idx+1:])
	def = strings.TrimPrefix(def, `"`)
	def = strings.TrimSuffix(def, `"`)
	return path, def, true
}

// walk resolves a split path against a context map.
func walk(ctx Context, parts []string) (any, bool) {
	return walkValue(map[string]any(ctx), parts)
}

// walkValue resolves a split path against an arbitrary value, stepping
// through nested maps. It stops with ok=false at the first missing key or
// non-map step.
func walkValue(v any, parts []string) (any, bool) {
	cur := v
	for _, part := range parts {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// asMap normalizes the map shapes a caller-supplied context can contain.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return m, true
	default:
		return nil, false
	}
}
