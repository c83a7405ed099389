// Package pricing resolves an item code (diamond quantity or weekly pass) to
// its price in MMK. Persisted overrides always win over the builtin table so
// operators can adjust live pricing without a redeploy.
package pricing

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownItem = errors.New("unknown item code")

const (
	weeklyPassPrefix = "wp"
	weeklyPassUnit   = 6000
	weeklyPassMax    = 10
)

// builtin diamond prices, MMK.
var builtin = map[string]int64{
	"11": 950, "22": 1900, "33": 2850, "56": 4200, "112": 8200,
	"86": 5100, "172": 10200, "257": 15300, "343": 20400,
	"429": 25500, "514": 30600, "600": 35700, "706": 40800,
	"878": 51000, "963": 56100, "1049": 61200, "1135": 66300,
	"1412": 81600, "2195": 122400, "3688": 204000,
	"5532": 306000, "9288": 510000, "12976": 714000,
	"55": 3500, "165": 10000, "275": 16000, "565": 33000,
}

// Overrides is the persisted price override map, read on every resolution.
type Overrides interface {
	Prices(ctx context.Context) (map[string]int64, error)
}

type Table struct {
	overrides Overrides
}

func NewTable(overrides Overrides) *Table {
	return &Table{overrides: overrides}
}

// PriceOf resolves code to a price. Resolution order: persisted override,
// weekly pass rule (wp1..wp10 -> N x 6000), builtin table.
func (t *Table) PriceOf(ctx context.Context, code string) (int64, error) {
	overrides, err := t.overrides.Prices(ctx)
	if err != nil {
		return 0, err
	}
	if price, ok := overrides[code]; ok {
		return price, nil
	}

	if price, ok := weeklyPassPrice(code); ok {
		return price, nil
	}

	if price, ok := builtin[code]; ok {
		return price, nil
	}

	return 0, ErrUnknownItem
}

func weeklyPassPrice(code string) (int64, bool) {
	if !strings.HasPrefix(code, weeklyPassPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(code[len(weeklyPassPrefix):])
	if err != nil || n < 1 || n > weeklyPassMax {
		return 0, false
	}
	return int64(n) * weeklyPassUnit, true
}

// Codes returns every builtin diamond code in ascending numeric order, for
// the /price listing.
func Codes() []string {
	codes := make([]string, 0, len(builtin))
	for code := range builtin {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		a, _ := strconv.Atoi(codes[i])
		b, _ := strconv.Atoi(codes[j])
		return a < b
	})
	return codes
}

// BuiltinPrice looks up a code in the builtin table only.
func BuiltinPrice(code string) (int64, bool) {
	price, ok := builtin[code]
	return price, ok
}
