package template

// Node is the closed union of AST node variants. The evaluator type-
// switches exhaustively over these; adding a variant without teaching the
// evaluator about it trips an assertion at render time.
type Node interface {
	node()
}

// TextNode is a literal text run.
type TextNode struct {
	Text string
}

// VariableNode interpolates a path expression.
type VariableNode struct {
	Path string
}

// PartialNode inline-expands a registered partial.
type PartialNode struct {
	Name string
}

// IfNode renders TrueBranch iff Condition resolves truthy.
//
// FalseBranch is structurally present but never populated or rendered:
// the grammar has no {{else}} tag. The field stays so adding one later
// does not change the node shape.
type IfNode struct {
	Condition   string
	TrueBranch  []Node
	FalseBranch []Node
}

// EachNode renders Body once per item of the resolved collection.
type EachNode struct {
	Collection string
	Body       []Node
}

func (*TextNode) node()     {}
func (*VariableNode) node() {}
func (*PartialNode) node()  {}
func (*IfNode) node()       {}
func (*EachNode) node()     {}

// Build nests a flat token sequence into a tree using an explicit stack
// of insertion points.
//
// The builder performs no balance checking and never fails: a stray end
// tag with no matching start simply pops past nothing (a no-op at the
// top-level frame). This leniency keeps compilation a pure, total
// function; callers wanting early diagnostics run Validate first. That
// asymmetry is deliberate.
func Build(tokens []Token) []Node {
	root := []Node{}
	stack := []*[]Node{&root}
	top := func() *[]Node { return stack[len(stack)-1] }

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenText:
			*top() = append(*top(), &TextNode{Text: tok.Value})
		case TokenVariable:
			*top() = append(*top(), &VariableNode{Path: tok.Value})
		case TokenPartial:
			*top() = append(*top(), &PartialNode{Name: tok.Value})
		case TokenIfStart:
			n := &IfNode{Condition: tok.Value, TrueBranch: []Node{}}
			*top() = append(*top(), n)
			stack = append(stack, &n.TrueBranch)
		case TokenEachStart:
			n := &EachNode{Collection: tok.Value, Body: []Node{}}
			*top() = append(*top(), n)
			stack = append(stack, &n.Body)
		case TokenIfEnd, TokenEachEnd:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return root
}
