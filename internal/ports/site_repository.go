package ports

import (
	"context"

	"site-intel-service/internal/domain"
)

// Port: durable storage for saved estimates.
type SiteRepository interface {
	// Assign an ID and save time, then persist the site.
	Save(ctx context.Context, site *domain.Site) (*domain.Site, error)
	// Return domain.ErrSiteNotFound when no site has the ID.
	Get(ctx context.Context, id string) (*domain.Site, error)
	// Newest first; an empty type returns every site.
	List(ctx context.Context, siteType domain.SiteType) ([]*domain.Site, error)
	// Case-insensitive substring match on name, notes and territory.
	Search(ctx context.Context, query string) ([]*domain.Site, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
}
