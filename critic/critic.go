// Package critic defines evaluation critics and turns LLM replies into
// aggregated scores.
//
// A critic is a unit of evaluation logic: a prompt template plus scoring
// rules. Critics are authored as TOML files; their templates are rendered
// by the template engine against the content under evaluation, sent to an
// LLM provider, and the numeric score in the reply is parsed, clamped to
// the critic's scale and aggregated across critics by weight.
package critic

import (
	"github.com/teranos/verdict/errors"
)

// Scale bounds the score a critic may award.
type Scale struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// DefaultScale is used when a critic file omits [scale].
var DefaultScale = Scale{Min: 1, Max: 10}

// Critic is one evaluation prompt plus its scoring rules.
type Critic struct {
	// Name identifies the critic; defaults to the file basename
	Name string `toml:"name" json:"name"`

	// Description explains what the critic judges
	Description string `toml:"description" json:"description"`

	// Weight scales this critic's contribution to the aggregate.
	// Zero-weight critics still run and report, but do not move the
	// weighted mean.
	Weight float64 `toml:"weight" json:"weight"`

	// System is the optional system prompt sent with every request
	System string `toml:"system" json:"system,omitempty"`

	// Template is the user-prompt template, in the engine's {{...}}
	// grammar. It may reference shared partials via {{> name}}.
	Template string `toml:"template" json:"template"`

	// Scale bounds the awarded score
	Scale Scale `toml:"scale" json:"scale"`
}

// Validate checks a critic definition for structural problems.
// Template syntax is checked separately by the store, which owns an
// engine.
func (c *Critic) Validate() error {
	if c.Name == "" {
		return errors.New("critic name cannot be empty")
	}
	if c.Template == "" {
		return errors.Newf("critic %q has no template", c.Name)
	}
	if c.Weight < 0 {
		return errors.Newf("critic %q has negative weight %f", c.Name, c.Weight)
	}
	if c.Scale.Max <= c.Scale.Min {
		return errors.Newf("critic %q scale max (%f) must exceed min (%f)", c.Name, c.Scale.Max, c.Scale.Min)
	}
	return nil
}
