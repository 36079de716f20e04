package investors

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/investor-portal/internal/models"
)

// AllAssetClasses is the synthetic key carrying the grand total.
const AllAssetClasses = "All"

// AssetClassTotal is the summed amount of one asset class.
type AssetClassTotal struct {
	AssetClass string          `json:"asset_class"`
	Amount     decimal.Decimal `json:"amount"`
}

// Totals is an ordered asset-class aggregation: classes in first-seen order,
// followed by the AllAssetClasses grand total.
type Totals []AssetClassTotal

// Aggregate sums commitments per asset class in a single pass and appends the
// grand total under AllAssetClasses. Commitments whose class is literally
// "All" count towards the grand total only.
func Aggregate(commitments []models.Commitment) Totals {
	index := make(map[string]int)
	totals := make(Totals, 0, len(commitments)+1)
	grand := decimal.Zero

	for _, c := range commitments {
		grand = grand.Add(c.Amount)
		if c.AssetClass == AllAssetClasses {
			continue
		}
		if i, ok := index[c.AssetClass]; ok {
			totals[i].Amount = totals[i].Amount.Add(c.Amount)
			continue
		}
		index[c.AssetClass] = len(totals)
		totals = append(totals, AssetClassTotal{AssetClass: c.AssetClass, Amount: c.Amount})
	}

	return append(totals, AssetClassTotal{AssetClass: AllAssetClasses, Amount: grand})
}

// Get returns the total for an asset class.
func (t Totals) Get(assetClass string) (decimal.Decimal, bool) {
	entry, ok := lo.Find(t, func(e AssetClassTotal) bool {
		return e.AssetClass == assetClass
	})
	return entry.Amount, ok
}

// All returns the grand total.
func (t Totals) All() decimal.Decimal {
	amount, _ := t.Get(AllAssetClasses)
	return amount
}

// Classes returns the per-class entries without the grand total.
func (t Totals) Classes() Totals {
	return lo.Filter(t, func(e AssetClassTotal, _ int) bool {
		return e.AssetClass != AllAssetClasses
	})
}
