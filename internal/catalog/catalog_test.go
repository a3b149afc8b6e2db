package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/indicator"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

func validDef() StrategyDefinition {
	return StrategyDefinition{
		Base:     "BRSI",
		Name:     "Buy RSI Oversold",
		Side:     model.SideBuy,
		Category: model.CategoryMeanReversion,
		Required: []string{indicator.ColRSI14},
		Defaults: map[string]float64{"oversold": 30, "magnitude_step": 3},
		Ranges:   map[string][2]float64{"oversold": {10, 40}, "magnitude_step": {1, 10}},
		Conditions: []Condition{
			{Left: Operand{Indicator: indicator.ColRSI14}, Op: OpLT, Right: Operand{Param: "oversold"}},
		},
		Magnitude: MagnitudeRule{
			Driver: Operand{Indicator: indicator.ColRSI14},
			Ref:    Operand{Param: "oversold"},
			Below:  true,
			Step:   "magnitude_step",
		},
	}
}

func TestLoad_Valid(t *testing.T) {
	cat, err := Load("test", []StrategyDefinition{validDef()})
	assert.NoError(t, err)
	assert.Equal(t, "test", cat.Version())
	assert.Equal(t, 1, cat.Size())

	def, err := cat.Resolve("BRSI")
	assert.NoError(t, err)
	assert.Equal(t, "Buy RSI Oversold", def.Name)
}

func TestResolve_NotFound(t *testing.T) {
	cat, err := Load("test", []StrategyDefinition{validDef()})
	assert.NoError(t, err)

	_, err = cat.Resolve("XXXX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_DuplicateBase(t *testing.T) {
	_, err := Load("test", []StrategyDefinition{validDef(), validDef()})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_BadBase(t *testing.T) {
	for _, base := range []string{"BRS", "brsi", "BRSI5", "B-SI"} {
		def := validDef()
		def.Base = base
		_, err := Load("test", []StrategyDefinition{def})
		assert.ErrorIs(t, err, ErrInvalidCatalog, "base=%q", base)
	}
}

func TestLoad_SideMismatch(t *testing.T) {
	def := validDef()
	def.Side = model.SideSell // base starts with B
	_, err := Load("test", []StrategyDefinition{def})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_BadCategory(t *testing.T) {
	def := validDef()
	def.Category = "momentum"
	_, err := Load("test", []StrategyDefinition{def})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_EmptyRange(t *testing.T) {
	def := validDef()
	def.Ranges["oversold"] = [2]float64{40, 10}
	_, err := Load("test", []StrategyDefinition{def})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_DefaultOutsideRange(t *testing.T) {
	def := validDef()
	def.Defaults["oversold"] = 55
	_, err := Load("test", []StrategyDefinition{def})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_RuleReferencesUnknownParam(t *testing.T) {
	def := validDef()
	def.Conditions = append(def.Conditions, Condition{
		Left:  Operand{Indicator: indicator.ColRSI14},
		Op:    OpGT,
		Right: Operand{Param: "missing"},
	})
	_, err := Load("test", []StrategyDefinition{def})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_NoPartialCatalog(t *testing.T) {
	bad := validDef()
	bad.Base = "SRSI" // sell base, but side stays Buy
	_, err := Load("test", []StrategyDefinition{validDef(), bad})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestSeedCatalog(t *testing.T) {
	cat, err := LoadSeed()
	assert.NoError(t, err)
	assert.Equal(t, SeedVersion, cat.Version())

	buys := cat.AllWithSide(model.SideBuy)
	sells := cat.AllWithSide(model.SideSell)
	assert.NotEmpty(t, buys)
	assert.Equal(t, len(buys)+len(sells), cat.Size())
	for _, def := range buys {
		assert.Equal(t, "B", def.Base[:1])
	}
	for _, def := range sells {
		assert.Equal(t, "S", def.Base[:1])
	}

	// Both breakout strategies depend on the rolling volume average.
	requiring := cat.AllRequiring(indicator.ColVolumeAvg)
	bases := make([]string, 0, len(requiring))
	for _, def := range requiring {
		bases = append(bases, def.Base)
	}
	assert.ElementsMatch(t, []string{"BBRK", "SBRK"}, bases)
}
