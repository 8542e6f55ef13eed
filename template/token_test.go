package template

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "plain text",
			input: "Hello world",
			want:  []Token{{Kind: TokenText, Value: "Hello world", Raw: "Hello world"}},
		},
		{
			name:  "single variable",
			input: "Hello {{name}}",
			want: []Token{
				{Kind: TokenText, Value: "Hello ", Raw: "Hello "},
				{Kind: TokenVariable, Value: "name", Raw: "{{name}}"},
			},
		},
		{
			name:  "variable with default",
			input: `{{tone | "neutral"}}`,
			want: []Token{
				{Kind: TokenVariable, Value: `tone | "neutral"`, Raw: `{{tone | "neutral"}}`},
			},
		},
		{
			name:  "if block",
			input: "{{#if flag}}yes{{/if}}",
			want: []Token{
				{Kind: TokenIfStart, Value: "flag", Raw: "{{#if flag}}"},
				{Kind: TokenText, Value: "yes", Raw: "yes"},
				{Kind: TokenIfEnd, Value: "if", Raw: "{{/if}}"},
			},
		},
		{
			name:  "each block",
			input: "{{#each items}}x{{/each}}",
			want: []Token{
				{Kind: TokenEachStart, Value: "items", Raw: "{{#each items}}"},
				{Kind: TokenText, Value: "x", Raw: "x"},
				{Kind: TokenEachEnd, Value: "each", Raw: "{{/each}}"},
			},
		},
		{
			name:  "partial",
			input: "{{> header}}",
			want:  []Token{{Kind: TokenPartial, Value: "header", Raw: "{{> header}}"}},
		},
		{
			name:  "partial without space",
			input: "{{>header}}",
			want:  []Token{{Kind: TokenPartial, Value: "header", Raw: "{{>header}}"}},
		},
		{
			name:  "whitespace around tags preserved verbatim",
			input: "  {{#if a}}  body  {{/if}}  ",
			want: []Token{
				{Kind: TokenText, Value: "  ", Raw: "  "},
				{Kind: TokenIfStart, Value: "a", Raw: "{{#if a}}"},
				{Kind: TokenText, Value: "  body  ", Raw: "  body  "},
				{Kind: TokenIfEnd, Value: "if", Raw: "{{/if}}"},
				{Kind: TokenText, Value: "  ", Raw: "  "},
			},
		},
		{
			name:  "variable whose name starts with a directive keyword",
			input: "{{ifield}}",
			want:  []Token{{Kind: TokenVariable, Value: "ifield", Raw: "{{ifield}}"}},
		},
		{
			name:  "variable whose name starts with each",
			input: "{{eachway}}",
			want:  []Token{{Kind: TokenVariable, Value: "eachway", Raw: "{{eachway}}"}},
		},
		{
			name:  "unknown block directive stays literal text",
			input: "{{#unless x}}",
			want:  []Token{{Kind: TokenText, Value: "{{#unless x}}", Raw: "{{#unless x}}"}},
		},
		{
			name:  "unknown end directive stays literal text",
			input: "{{/with}}",
			want:  []Token{{Kind: TokenText, Value: "{{/with}}", Raw: "{{/with}}"}},
		},
		{
			name:  "dotted path and loop metadata",
			input: "{{user.name}}{{@index}}{{.}}",
			want: []Token{
				{Kind: TokenVariable, Value: "user.name", Raw: "{{user.name}}"},
				{Kind: TokenVariable, Value: "@index", Raw: "{{@index}}"},
				{Kind: TokenVariable, Value: ".", Raw: "{{.}}"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeIsPure(t *testing.T) {
	input := "a {{#each xs}}{{.}}{{/each}} b {{> p}} {{v | \"d\"}}"
	first := Tokenize(input)
	second := Tokenize(input)
	if !reflect.DeepEqual(first, second) {
		t.Error("re-tokenizing identical input must yield an identical sequence")
	}
}

func TestTokenizeBalancedSequence(t *testing.T) {
	// A syntactically valid template tokenizes with stack-disciplined nesting
	tokens := Tokenize("{{#if a}}{{#each b}}{{.}}{{/each}}{{/if}}")

	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenIfStart, TokenEachStart:
			depth++
		case TokenIfEnd, TokenEachEnd:
			depth--
			if depth < 0 {
				t.Fatal("end tag before matching start tag")
			}
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced token stream, final depth %d", depth)
	}
}
