package contract

import (
	"context"

	krogerx "github.com/tanpawarit/grocery-shopping-assistant/pkg/kroger"
)

// Resolver maps free text to a Resolution. Failures surface as ResolutionNone.
type Resolver interface {
	Resolve(ctx context.Context, query string) Resolution
}

// GroceryAPI is the retailer surface the dispatcher needs.
type GroceryAPI interface {
	FindNearestStore(ctx context.Context, zipCode string) (*krogerx.StoreLocation, bool)
	SearchProducts(ctx context.Context, locationID string, term string) []krogerx.ProductResult
}
