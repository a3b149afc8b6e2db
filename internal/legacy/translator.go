// Package legacy translates the retired one-letter signal vocabulary into
// the structured 5-character encoding. It runs offline over historical
// records during backfill and never participates in live classification.
package legacy

import (
	"errors"
	"fmt"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// ErrUnmappableLegacyCode marks a record that cannot be translated. The
// record must be quarantined or the batch halted; it is never dropped or
// guessed at.
var ErrUnmappableLegacyCode = errors.New("unmappable legacy code")

// TableVersion identifies the translation table. The table is append-only:
// revising an existing row means publishing a new version.
const TableVersion = "2024-06"

// Translation is the fixed target for one retired code.
type Translation struct {
	StrategyBase string
	Side         model.Side
	Magnitude    int
}

// The retired vocabulary was {A, B, C, D}: strong buy, buy, hold, sell.
// 'C' (hold) is deliberately absent: neutral signal emission is retired,
// so historical holds have no representation in the new encoding.
var table = map[string]Translation{
	"A": {StrategyBase: "BBRK", Side: model.SideBuy, Magnitude: 7},
	"B": {StrategyBase: "BMAC", Side: model.SideBuy, Magnitude: 4},
	"D": {StrategyBase: "SBRK", Side: model.SideSell, Magnitude: 3},
}

// Translate maps one retired code to its structured equivalent.
func Translate(code string) (Translation, error) {
	t, ok := table[code]
	if !ok {
		return Translation{}, fmt.Errorf("%w: %q", ErrUnmappableLegacyCode, code)
	}
	return t, nil
}

// Record is one historical row awaiting translation.
type Record struct {
	ID         string
	LegacyCode string
}

// BatchResult separates translated rows from quarantined ones so the
// operator decides what to do with the failures. Nothing is silently
// dropped.
type BatchResult struct {
	Translated  map[string]Translation
	Quarantined map[string]error
}

// TranslateBatch translates a historical batch, quarantining every
// unmappable record instead of halting on the first one.
func TranslateBatch(records []Record) BatchResult {
	out := BatchResult{
		Translated:  make(map[string]Translation, len(records)),
		Quarantined: make(map[string]error),
	}
	for _, r := range records {
		t, err := Translate(r.LegacyCode)
		if err != nil {
			out.Quarantined[r.ID] = err
			continue
		}
		out.Translated[r.ID] = t
	}
	return out
}
