// AngelaMos | 2026
// counters.go

package admin

import (
	"context"

	"github.com/lamjungdrops/storefront/internal/user"
)

type userCounter interface {
	CountByRole(ctx context.Context) (user.RoleCounts, error)
}

type recordCounter interface {
	Count(ctx context.Context) (int, error)
}

// Counters adapts the domain services to StoreCounter.
type Counters struct {
	Users    userCounter
	Products recordCounter
	Messages recordCounter
}

func (c Counters) CountUsers(ctx context.Context) (user.RoleCounts, error) {
	return c.Users.CountByRole(ctx)
}

func (c Counters) CountProducts(ctx context.Context) (int, error) {
	return c.Products.Count(ctx)
}

func (c Counters) CountMessages(ctx context.Context) (int, error) {
	return c.Messages.Count(ctx)
}
