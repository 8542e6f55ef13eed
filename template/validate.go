package template

import (
	"fmt"
)

// ValidationResult reports whether a template's block tags are balanced.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate tokenizes a template independently of compilation and checks
// block-tag balance with two depth counters. It never fails on its own:
// the result lists every imbalance found.
//
// Render does not call this; the builder is deliberately lenient (see
// Build). Template authors should validate before shipping a new
// template, since a malformed template fed straight to Render produces
// whatever the lenient stack discipline yields.
func Validate(template string) ValidationResult {
	tokens := Tokenize(template)

	ifDepth, eachDepth := 0, 0
	var errs []string

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenIfStart:
			ifDepth++
		case TokenEachStart:
			eachDepth++
		case TokenIfEnd:
			ifDepth--
			if ifDepth < 0 {
				errs = append(errs, "unmatched {{/if}} tag")
				ifDepth = 0
			}
		case TokenEachEnd:
			eachDepth--
			if eachDepth < 0 {
				errs = append(errs, "unmatched {{/each}} tag")
				eachDepth = 0
			}
		}
	}

	if ifDepth > 0 {
		errs = append(errs, fmt.Sprintf("%d unclosed {{#if}} tag(s)", ifDepth))
	}
	if eachDepth > 0 {
		errs = append(errs, fmt.Sprintf("%d unclosed {{#each}} tag(s)", eachDepth))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
