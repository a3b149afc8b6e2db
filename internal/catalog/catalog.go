// Package catalog holds the versioned registry of signal strategies. Entries
// are immutable once loaded: threshold changes ship as a new catalog version
// or a new strategy base, never as in-place mutation, because downstream
// consumers key on the base.
package catalog

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

var (
	// ErrInvalidCatalog is fatal at load time. A partially valid catalog is
	// never admitted.
	ErrInvalidCatalog = errors.New("invalid strategy catalog")

	// ErrNotFound marks a lookup for an unknown strategy base.
	ErrNotFound = errors.New("strategy not found")
)

var basePattern = regexp.MustCompile(`^[A-Z]{4}$`)

// Op is a comparison between two rule operands. Cross operators also read
// the previous evaluation index.
type Op string

const (
	OpGT         Op = "gt"
	OpLT         Op = "lt"
	OpGE         Op = "ge"
	OpLE         Op = "le"
	OpCrossAbove Op = "cross_above"
	OpCrossBelow Op = "cross_below"
)

// Operand names a value source for a rule: a computed indicator column, a
// strategy parameter, or a literal. Factor optionally scales the resolved
// value by another parameter (volume thresholds, breakout bands).
type Operand struct {
	Indicator string
	Param     string
	Value     float64
	Factor    string
}

// Condition is one clause of an activation predicate. All clauses of a
// definition must hold for the strategy to fire.
type Condition struct {
	Left  Operand
	Op    Op
	Right Operand
}

// MagnitudeRule maps the distance past a threshold onto the 1-9 scale:
// excess = driver - ref (or ref - driver when Below), optionally divided by
// |ref| when Relative, then bucketed by the Step parameter. The bucket
// formula is monotonic, so the strongest qualifying magnitude wins by
// construction.
type MagnitudeRule struct {
	Driver   Operand
	Ref      Operand
	Below    bool
	Relative bool
	Step     string
}

// StrategyDefinition 策略目录条目
// The activation predicate and magnitude rule are data, so adding a strategy
// base is a catalog change, not a classifier change.
type StrategyDefinition struct {
	Base       string
	Name       string
	Side       model.Side
	Category   string
	Required   []string
	Optional   []string
	Defaults   map[string]float64
	Ranges     map[string][2]float64
	Conditions []Condition
	Magnitude  MagnitudeRule
}

// Catalog is the loaded, read-only registry for one catalog version.
type Catalog struct {
	version string
	byBase  map[string]StrategyDefinition
	ordered []string
}

// Load validates every definition and builds the registry. Any violation
// rejects the whole load.
func Load(version string, defs []StrategyDefinition) (*Catalog, error) {
	c := &Catalog{
		version: version,
		byBase:  make(map[string]StrategyDefinition, len(defs)),
	}

	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, def.Base, err)
		}
		if _, dup := c.byBase[def.Base]; dup {
			return nil, fmt.Errorf("%w: duplicate strategy base %s", ErrInvalidCatalog, def.Base)
		}
		c.byBase[def.Base] = def
		c.ordered = append(c.ordered, def.Base)
	}
	return c, nil
}

func validate(def StrategyDefinition) error {
	if !basePattern.MatchString(def.Base) {
		return fmt.Errorf("base %q is not 4 uppercase letters", def.Base)
	}
	if !def.Side.Valid() {
		return fmt.Errorf("unknown side %q", def.Side)
	}
	if def.Base[:1] != def.Side.Letter() {
		return fmt.Errorf("base %q does not start with side letter %s", def.Base, def.Side.Letter())
	}
	if !model.ValidCategory(def.Category) {
		return fmt.Errorf("unknown category %q", def.Category)
	}

	for name, r := range def.Ranges {
		if r[0] > r[1] {
			return fmt.Errorf("parameter %s has empty range [%g,%g]", name, r[0], r[1])
		}
		d, ok := def.Defaults[name]
		if !ok {
			return fmt.Errorf("parameter %s has a range but no default", name)
		}
		if d < r[0] || d > r[1] {
			return fmt.Errorf("parameter %s default %g outside range [%g,%g]", name, d, r[0], r[1])
		}
	}

	for _, p := range referencedParams(def) {
		if _, ok := def.Defaults[p]; !ok {
			return fmt.Errorf("rule references unknown parameter %s", p)
		}
	}

	if len(def.Conditions) == 0 {
		return fmt.Errorf("no activation conditions")
	}
	if def.Magnitude.Step == "" {
		return fmt.Errorf("magnitude rule has no step parameter")
	}
	return nil
}

func referencedParams(def StrategyDefinition) []string {
	var out []string
	add := func(ops ...Operand) {
		for _, op := range ops {
			if op.Param != "" {
				out = append(out, op.Param)
			}
			if op.Factor != "" {
				out = append(out, op.Factor)
			}
		}
	}
	for _, c := range def.Conditions {
		add(c.Left, c.Right)
	}
	add(def.Magnitude.Driver, def.Magnitude.Ref)
	out = append(out, def.Magnitude.Step)
	return out
}

// Version returns the loaded catalog version identifier.
func (c *Catalog) Version() string { return c.version }

// Resolve returns the definition for a strategy base.
func (c *Catalog) Resolve(base string) (StrategyDefinition, error) {
	def, ok := c.byBase[base]
	if !ok {
		return StrategyDefinition{}, fmt.Errorf("%w: %s", ErrNotFound, base)
	}
	return def, nil
}

// All returns every definition in load order.
func (c *Catalog) All() []StrategyDefinition {
	out := make([]StrategyDefinition, 0, len(c.ordered))
	for _, base := range c.ordered {
		out = append(out, c.byBase[base])
	}
	return out
}

// AllWithSide returns the definitions on one side of the book.
func (c *Catalog) AllWithSide(side model.Side) []StrategyDefinition {
	var out []StrategyDefinition
	for _, def := range c.All() {
		if def.Side == side {
			out = append(out, def)
		}
	}
	return out
}

// AllRequiring returns the definitions that list an indicator as required.
// The classifier uses it to skip whole strategy families when a column is
// structurally unavailable.
func (c *Catalog) AllRequiring(indicatorName string) []StrategyDefinition {
	var out []StrategyDefinition
	for _, def := range c.All() {
		for _, req := range def.Required {
			if req == indicatorName {
				out = append(out, def)
				break
			}
		}
	}
	return out
}

// Size returns the number of loaded definitions.
func (c *Catalog) Size() int { return len(c.ordered) }
