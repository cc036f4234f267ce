package services

import (
	"context"
	"mime/multipart"
	"time"

	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

// The store interfaces are satisfied by the MySQL repositories and by
// in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateProfile(ctx context.Context, u *models.User) error
}

// ImageStore persists uploaded images. Remove undoes a Save whose
// listing write failed.
type ImageStore interface {
	Save(kind string, ownerID int64, files []*multipart.FileHeader) ([]string, error)
	Remove(paths []string)
}

type ListingStore interface {
	List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Listing, int, error)
	Get(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, l *models.Listing) (int64, error)
	Update(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	IncrementContacts(ctx context.Context, id int64) error
}

type ToolStore interface {
	List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Tool, int, error)
	Get(ctx context.Context, id int64) (*models.Tool, error)
	Create(ctx context.Context, t *models.Tool) (int64, error)
	Update(ctx context.Context, t *models.Tool) error
	Delete(ctx context.Context, id int64) error
}

type QuestionStore interface {
	List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Question, int, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) (int64, error)
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	AddAnswer(ctx context.Context, a *models.Answer) (int64, error)
}

type MarketPriceStore interface {
	List(ctx context.Context, p query.Predicate, page query.Page) ([]models.MarketPrice, int, error)
	Trend(ctx context.Context, p query.Predicate) ([]models.MarketPrice, error)
	Filters(ctx context.Context) (models.PriceFilters, error)
	Create(ctx context.Context, p *models.MarketPrice) (int64, error)
}

type MarketplaceStore interface {
	ListMandiPrices(ctx context.Context, p query.Predicate, page query.Page) ([]models.MandiPrice, int, error)
	CreateMandiPrice(ctx context.Context, m *models.MandiPrice) (int64, error)
	ListFarmerListings(ctx context.Context, p query.Predicate, page query.Page) ([]models.FarmerListing, int, error)
	CreateFarmerListing(ctx context.Context, f *models.FarmerListing) (int64, error)
	ListBuyerRequirements(ctx context.Context, p query.Predicate, page query.Page) ([]models.BuyerRequirement, int, error)
	CreateBuyerRequirement(ctx context.Context, b *models.BuyerRequirement) (int64, error)
}
