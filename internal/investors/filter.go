package investors

import (
	"github.com/samber/lo"

	"github.com/bobmcallan/investor-portal/internal/models"
)

// ToggleAssetClass returns the selection after clicking a class card.
// Clicking the selected class clears the filter (empty string).
func ToggleAssetClass(selected, clicked string) string {
	if clicked == selected {
		return ""
	}
	return clicked
}

// Filter returns the commitments of the selected asset class, matched exactly
// and case-sensitively. An empty selection or AllAssetClasses returns all.
func Filter(commitments []models.Commitment, selected string) []models.Commitment {
	if selected == "" || selected == AllAssetClasses {
		return commitments
	}
	return lo.Filter(commitments, func(c models.Commitment, _ int) bool {
		return c.AssetClass == selected
	})
}
