package interfaces

import (
	"context"

	"github.com/bobmcallan/investor-portal/internal/models"
)

// InvestorSource provides read access to investors and their commitments.
// The HTTP client is the production implementation; tests swap in fakes.
type InvestorSource interface {
	ListInvestors(ctx context.Context) (*models.InvestorsResponse, error)
	GetInvestor(ctx context.Context, id int) (*models.InvestorDetail, error)
}

// HealthChecker reports whether an upstream dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
