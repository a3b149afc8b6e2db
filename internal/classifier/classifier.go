// Package classifier evaluates catalog rules against computed indicator
// columns. It is deterministic: the same series and catalog always produce
// the same signal set, and strategies are evaluated in catalog load order.
package classifier

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/catalog"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/indicator"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

type Classifier struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func New(cat *catalog.Catalog, logger *zap.Logger) *Classifier {
	return &Classifier{
		catalog: cat,
		logger:  logger,
	}
}

// ClassifyIndex evaluates every catalog strategy at one index of the
// computed column set and returns the fired signals, sorted by strategy
// base. A strategy whose required columns are structurally unavailable is
// skipped with a warning; one strategy's failure never blocks the others.
func (c *Classifier) ClassifyIndex(symbol string, ts time.Time, set *indicator.Set, idx int) []model.Signal {
	var signals []model.Signal

	for _, def := range c.catalog.All() {
		sig, fired, err := c.evaluate(def, symbol, ts, set, idx)
		if err != nil {
			if errors.Is(err, indicator.ErrUnavailable) {
				c.logger.Warn("strategy skipped, indicator unavailable",
					zap.String("strategy_base", def.Base),
					zap.Error(err),
				)
				continue
			}
			c.logger.Error("strategy evaluation failed",
				zap.String("strategy_base", def.Base),
				zap.Error(err),
			)
			continue
		}
		if fired {
			signals = append(signals, sig)
		}
	}

	sort.Slice(signals, func(i, j int) bool {
		return signals[i].StrategyBase < signals[j].StrategyBase
	})
	return signals
}

// evaluate runs one definition at one index. fired is false when the
// strategy is still warming up or its predicate does not hold.
func (c *Classifier) evaluate(def catalog.StrategyDefinition, symbol string, ts time.Time, set *indicator.Set, idx int) (model.Signal, bool, error) {
	for _, name := range def.Required {
		v, err := set.At(name, idx)
		if err != nil {
			return model.Signal{}, false, err
		}
		if !indicator.Defined(v) {
			return model.Signal{}, false, nil
		}
	}

	for _, cond := range def.Conditions {
		hold, err := c.holds(cond, def.Defaults, set, idx)
		if err != nil {
			return model.Signal{}, false, err
		}
		if !hold {
			return model.Signal{}, false, nil
		}
	}

	mag, err := c.magnitude(def, set, idx)
	if err != nil {
		return model.Signal{}, false, err
	}

	return model.Signal{
		Symbol:       symbol,
		Timestamp:    ts,
		StrategyBase: def.Base,
		Side:         def.Side,
		Magnitude:    mag,
		Category:     def.Category,
	}, true, nil
}

func (c *Classifier) holds(cond catalog.Condition, params map[string]float64, set *indicator.Set, idx int) (bool, error) {
	left, err := resolve(cond.Left, params, set, idx)
	if err != nil {
		return false, err
	}
	right, err := resolve(cond.Right, params, set, idx)
	if err != nil {
		return false, err
	}
	if !indicator.Defined(left) || !indicator.Defined(right) {
		return false, nil
	}

	switch cond.Op {
	case catalog.OpGT:
		return left > right, nil
	case catalog.OpLT:
		return left < right, nil
	case catalog.OpGE:
		return left >= right, nil
	case catalog.OpLE:
		return left <= right, nil
	case catalog.OpCrossAbove:
		if left <= right {
			return false, nil
		}
		return c.before(cond, params, set, idx, func(pl, pr float64) bool { return pl <= pr })
	case catalog.OpCrossBelow:
		if left >= right {
			return false, nil
		}
		return c.before(cond, params, set, idx, func(pl, pr float64) bool { return pl >= pr })
	}
	return false, fmt.Errorf("unknown rule operator %q", cond.Op)
}

// before checks the previous index for a cross operator. A previous cell
// that does not exist or is still warming up counts as "was not past the
// threshold", so the first defined index is itself a valid crossover point.
func (c *Classifier) before(cond catalog.Condition, params map[string]float64, set *indicator.Set, idx int, prevHeld func(pl, pr float64) bool) (bool, error) {
	if idx == 0 {
		return true, nil
	}
	pl, err := resolve(cond.Left, params, set, idx-1)
	if err != nil {
		return false, err
	}
	pr, err := resolve(cond.Right, params, set, idx-1)
	if err != nil {
		return false, err
	}
	if !indicator.Defined(pl) || !indicator.Defined(pr) {
		return true, nil
	}
	return prevHeld(pl, pr), nil
}

// magnitude buckets the distance past the threshold onto [1,9]. The mapping
// is monotonic in the excess, so a larger excess can never score lower.
func (c *Classifier) magnitude(def catalog.StrategyDefinition, set *indicator.Set, idx int) (int, error) {
	driver, err := resolve(def.Magnitude.Driver, def.Defaults, set, idx)
	if err != nil {
		return 0, err
	}
	ref, err := resolve(def.Magnitude.Ref, def.Defaults, set, idx)
	if err != nil {
		return 0, err
	}

	excess := driver - ref
	if def.Magnitude.Below {
		excess = ref - driver
	}
	if def.Magnitude.Relative && ref != 0 {
		excess /= abs(ref)
	}

	step := def.Defaults[def.Magnitude.Step]
	if step <= 0 || excess <= 0 {
		return 1, nil
	}

	mag := 1 + int(excess/step)
	if mag > 9 {
		mag = 9
	}
	return mag, nil
}

func resolve(op catalog.Operand, params map[string]float64, set *indicator.Set, idx int) (float64, error) {
	var v float64
	switch {
	case op.Indicator != "":
		got, err := set.At(op.Indicator, idx)
		if err != nil {
			return 0, err
		}
		v = got
	case op.Param != "":
		v = params[op.Param]
	default:
		v = op.Value
	}
	if op.Factor != "" {
		v *= params[op.Factor]
	}
	return v, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
