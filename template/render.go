package template

import (
	"strconv"
	"strings"

	"github.com/teranos/verdict/errors"
)

// Partials maps partial names to raw template strings. The registry is
// supplied by the caller at render time and is never mutated.
type Partials map[string]string

// PartialNotFoundError is returned when a template references a partial
// that was never registered. A missing partial is a caller wiring
// mistake, not absent data, so it fails loudly instead of rendering
// blank text that would silently corrupt a downstream prompt.
type PartialNotFoundError struct {
	Name string
}

func (e *PartialNotFoundError) Error() string {
	return "partial not found: " + e.Name
}

// IsPartialNotFound reports whether err is or wraps a PartialNotFoundError.
func IsPartialNotFound(err error) bool {
	var pnf *PartialNotFoundError
	return errors.As(err, &pnf)
}

// ErrPartialDepthExceeded is returned when partial expansion recurses past
// the engine's depth limit. Partials can reference other partials and no
// cycle detection exists, so the limit is the only guard against
// unbounded recursion.
var ErrPartialDepthExceeded = errors.New("partial recursion depth exceeded")

// renderState carries the per-call immutables through the recursive walk.
type renderState struct {
	engine   *Engine
	partials Partials
	depth    int
}

// renderNodes concatenates the rendered form of each node.
func renderNodes(nodes []Node, ctx Context, st renderState) (string, error) {
	var out strings.Builder
	for _, n := range nodes {
		s, err := renderNode(n, ctx, st)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

// renderNode evaluates a single node. Data-resolution failures degrade
// silently (missing variable -> empty, non-array each -> no iterations);
// structural failures (missing partial, runaway partial recursion) are
// loud.
func renderNode(n Node, ctx Context, st renderState) (string, error) {
	switch node := n.(type) {
	case *TextNode:
		return node.Text, nil

	case *VariableNode:
		v, _ := Resolve(node.Path, ctx)
		return stringify(v), nil

	case *PartialNode:
		raw, ok := st.partials[node.Name]
		if !ok {
			return "", &PartialNotFoundError{Name: node.Name}
		}
		if st.depth >= st.engine.maxPartialDepth {
			return "", errors.Wrapf(ErrPartialDepthExceeded, "expanding {{> %s}}", node.Name)
		}
		ast := st.engine.Compile(raw)
		return renderNodes(ast, ctx, renderState{
			engine:   st.engine,
			partials: st.partials,
			depth:    st.depth + 1,
		})

	case *IfNode:
		v, _ := Resolve(node.Condition, ctx)
		if isTruthy(v) {
			return renderNodes(node.TrueBranch, ctx, st)
		}
		// FalseBranch is never consulted; there is no {{else}}
		return "", nil

	case *EachNode:
		v, _ := Resolve(node.Collection, ctx)
		items, ok := asSlice(v)
		if !ok {
			return "", nil
		}
		var out strings.Builder
		for i, item := range items {
			iterCtx := derivedContext(ctx, item, i, len(items))
			s, err := renderNodes(node.Body, iterCtx, st)
			if err != nil {
				return "", err
			}
			out.WriteString(s)
		}
		return out.String(), nil

	default:
		return "", errors.AssertionFailedf("unhandled AST node type %T", n)
	}
}

// derivedContext overlays the outer context with the loop bindings for
// one iteration. The outer context is copied, never mutated; same-named
// keys are shadowed for the lifetime of the iteration only.
func derivedContext(outer Context, item any, index, length int) Context {
	derived := make(Context, len(outer)+5)
	for k, v := range outer {
		derived[k] = v
	}
	derived[loopItemKey] = item
	derived["this"] = item
	derived["@index"] = index
	derived["@first"] = index == 0
	derived["@last"] = index == length-1
	return derived
}

// isTruthy follows the engine's truthiness contract: nil, false, empty
// string and numeric zero are falsy; everything else, including empty
// slices and maps, is truthy.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// stringify converts a resolved value to its interpolated form.
// nil renders as empty: a missing optional field degrades gracefully
// rather than aborting the whole prompt.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		// JSON-decoded numbers arrive as float64
		return formatFloat(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// formatFloat renders integral floats without a trailing ".0" so that a
// JSON 3 round-trips as "3", not "3.000000".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// asSlice normalizes the collection shapes a context can contain.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}
