// Package template implements verdict's prompt template engine.
//
// Templates are strings with {{...}} tags:
//
//	{{path}}                  interpolate resolved value of path
//	{{path | "default"}}      interpolate path, or the literal default if unresolved
//	{{#if path}} ... {{/if}}  render body iff path resolves truthy
//	{{#each path}} ... {{/each}}
//	                          render body once per array item; {{.}}, {{this}},
//	                          {{@index}}, {{@first}}, {{@last}} available inside
//	{{> name}}                inline-expand the partial registered under name
//
// The engine compiles a template into an AST once and reuses the compiled
// form across renders with different contexts; see Engine.
//
// Whitespace around tags is preserved verbatim. There is no {{else}} and
// no HTML escaping.
package template

import (
	"regexp"
	"strings"
)

// TokenKind discriminates the token variants produced by Tokenize.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenVariable
	TokenIfStart
	TokenIfEnd
	TokenEachStart
	TokenEachEnd
	TokenPartial
)

// String returns the token kind name, for diagnostics and tests.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "Text"
	case TokenVariable:
		return "Variable"
	case TokenIfStart:
		return "IfStart"
	case TokenIfEnd:
		return "IfEnd"
	case TokenEachStart:
		return "EachStart"
	case TokenEachEnd:
		return "EachEnd"
	case TokenPartial:
		return "Partial"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit of a template: a literal text run or one
// tag instruction. Value holds the tag's inner content (a path expression,
// a collection expression, or a partial name); for Text tokens it holds
// the literal substring. Raw preserves the exact matched source slice.
type Token struct {
	Kind  TokenKind
	Value string
	Raw   string
}

// tagPattern matches all four tag shapes in a single pass:
// {{path}}, {{#if cond}} / {{/if}}, {{#each coll}} / {{/each}}, {{> name}}.
// Group 1 is the block sigil (# or /), group 2 the directive keyword,
// group 3 the inner expression.
var tagPattern = regexp.MustCompile(`\{\{([#/]?)(if|each|>)?\s*([^}]+?)\s*\}\}`)

// Tokenize scans a template and returns its ordered token sequence.
// It is a pure function of the input: identical input always yields an
// identical sequence.
//
// Unrecognized tag shapes (unknown directive keywords like {{#unless x}})
// are preserved verbatim as Text tokens rather than silently matching as
// Variable tokens containing the directive keyword.
func Tokenize(template string) []Token {
	matches := tagPattern.FindAllStringSubmatchIndex(template, -1)

	var tokens []Token
	lastEnd := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		if start > lastEnd {
			text := template[lastEnd:start]
			tokens = append(tokens, Token{Kind: TokenText, Value: text, Raw: text})
		}

		raw := template[start:end]
		sigil := groupText(template, m, 1)
		keyword := groupText(template, m, 2)
		inner := groupText(template, m, 3)

		tokens = append(tokens, classifyTag(sigil, keyword, inner, raw))
		lastEnd = end
	}

	if lastEnd < len(template) {
		text := template[lastEnd:]
		tokens = append(tokens, Token{Kind: TokenText, Value: text, Raw: text})
	}

	return tokens
}

// classifyTag maps a regex match onto a tag token.
func classifyTag(sigil, keyword, inner, raw string) Token {
	switch sigil {
	case "#":
		switch keyword {
		case "if":
			return Token{Kind: TokenIfStart, Value: inner, Raw: raw}
		case "each":
			return Token{Kind: TokenEachStart, Value: inner, Raw: raw}
		}
		// Unknown block directive ({{#unless x}}): keep the source text
		return Token{Kind: TokenText, Value: raw, Raw: raw}
	case "/":
		// End tags carry no keyword group; the regex captures the
		// directive name as the inner expression ({{/if}} -> "if")
		switch inner {
		case "if":
			return Token{Kind: TokenIfEnd, Value: inner, Raw: raw}
		case "each":
			return Token{Kind: TokenEachEnd, Value: inner, Raw: raw}
		}
		return Token{Kind: TokenText, Value: raw, Raw: raw}
	}

	if keyword == ">" {
		return Token{Kind: TokenPartial, Value: inner, Raw: raw}
	}

	// Plain variable. The keyword group can eagerly swallow an "if"/"each"
	// prefix of a variable name ({{ifield}}), so re-derive the path from
	// the raw slice instead of trusting the capture groups.
	if keyword != "" {
		return Token{Kind: TokenVariable, Value: strings.TrimSpace(raw[2 : len(raw)-2]), Raw: raw}
	}
	return Token{Kind: TokenVariable, Value: inner, Raw: raw}
}

// groupText extracts capture group n from a FindAllStringSubmatchIndex match.
func groupText(s string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}
