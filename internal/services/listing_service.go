package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/events"
	"krishilink/internal/query"
	"krishilink/internal/storage"
	"krishilink/internal/utils"
)

type ListingService struct {
	Listings ListingStore
	Users    UserStore
	Images   ImageStore
	Events   events.Publisher
	Now      func() time.Time
}

func (s ListingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// List returns active listings matching the query-string filters.
func (s ListingService) List(ctx context.Context, params map[string]string) ([]models.Listing, query.Pagination, error) {
	pred, err := ListingFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	pred = pred.With(query.OpEq, "l.status", models.ListingActive)
	page := query.ParsePage(params, ListingPageSize)

	items, total, err := s.Listings.List(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

// Mine returns every listing of the principal regardless of status.
func (s ListingService) Mine(ctx context.Context, p domain.Principal, params map[string]string) ([]models.Listing, query.Pagination, error) {
	page := query.ParsePage(params, ListingPageSize)
	pred := query.Predicate{}.With(query.OpEq, "l.seller_id", p.UserID)

	items, total, err := s.Listings.List(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

// View increments the view counter and returns the listing.
func (s ListingService) View(ctx context.Context, id int64) (*models.Listing, error) {
	if err := s.Listings.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.Listings.Get(ctx, id)
}

func (s ListingService) Create(ctx context.Context, p domain.Principal, in models.ListingInput, files []*multipart.FileHeader) (*models.Listing, error) {
	if err := checkImageCount(0, files); err != nil {
		return nil, err
	}
	images, err := s.saveImages(p.UserID, files)
	if err != nil {
		return nil, err
	}

	now := s.now()
	l := &models.Listing{SellerID: p.UserID, Status: models.ListingActive, CreatedAt: now, UpdatedAt: now}
	applyListingInput(l, in)
	// Status is not client controlled on create.
	l.Status = models.ListingActive
	l.Images = append([]string{}, images...)
	expiry := now.Add(models.ListingLifetime)
	l.ExpiryDate = &expiry

	id, err := s.Listings.Create(ctx, l)
	if err != nil {
		s.discardImages(images)
		return nil, err
	}
	utils.LogEventCtx(ctx, "listings", "create", fmt.Sprintf("listing_id=%d seller_id=%d", id, p.UserID))
	s.publish(ctx, events.ListingCreated, events.ListingEvent{ListingID: id, SellerID: p.UserID, CropType: l.CropType})

	created, err := s.Listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces the listing's fields; uploaded images are appended to the
// existing ones. Nothing is written to disk unless the principal owns the
// listing and the image cap holds.
func (s ListingService) Update(ctx context.Context, p domain.Principal, id int64, in models.ListingInput, files []*multipart.FileHeader) (*models.Listing, error) {
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(l.SellerID, p, "update", "listing"); err != nil {
		return nil, err
	}
	if err := checkImageCount(len(l.Images), files); err != nil {
		return nil, err
	}
	images, err := s.saveImages(p.UserID, files)
	if err != nil {
		return nil, err
	}
	applyListingInput(l, in)
	l.Images = append(l.Images, images...)

	if err := s.Listings.Update(ctx, l); err != nil {
		s.discardImages(images)
		return nil, err
	}
	utils.LogEventCtx(ctx, "listings", "update", fmt.Sprintf("listing_id=%d", id))
	return s.Listings.Get(ctx, id)
}

func (s ListingService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(l.SellerID, p, "delete", "listing"); err != nil {
		return err
	}
	if err := s.Listings.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEventCtx(ctx, "listings", "delete", fmt.Sprintf("listing_id=%d", id))
	return nil
}

// Contact counts the request and returns the seller's contact details.
func (s ListingService) Contact(ctx context.Context, p domain.Principal, id int64) (models.SellerContact, error) {
	if err := s.Listings.IncrementContacts(ctx, id); err != nil {
		return models.SellerContact{}, err
	}
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return models.SellerContact{}, err
	}

	contact := models.SellerContact{}
	seller, err := s.Users.FindByID(ctx, l.SellerID)
	switch {
	case err == nil:
		contact = models.SellerContact{Name: seller.Name, Phone: seller.Phone, Email: seller.Email}
	case domain.IsNotFound(err):
		// dangling seller reference; return an empty contact
	default:
		return models.SellerContact{}, err
	}

	s.publish(ctx, events.ListingContacted, events.ListingEvent{ListingID: id, SellerID: l.SellerID, BuyerID: p.UserID, CropType: l.CropType})
	return contact, nil
}

func checkImageCount(existing int, files []*multipart.FileHeader) error {
	if existing+len(files) > storage.MaxFilesCount {
		return domain.ValidationError{Field: "images", Msg: fmt.Sprintf("a listing can hold at most %d images", storage.MaxFilesCount)}
	}
	return nil
}

func (s ListingService) saveImages(ownerID int64, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if s.Images == nil {
		return nil, domain.InternalError{Msg: "image storage is not configured"}
	}
	return s.Images.Save("listings", ownerID, files)
}

func (s ListingService) discardImages(paths []string) {
	if len(paths) > 0 && s.Images != nil {
		s.Images.Remove(paths)
	}
}

func (s ListingService) publish(ctx context.Context, key string, v any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, key, v); err != nil {
		utils.LogEventCtx(ctx, "events", key, "publish failed: "+err.Error())
	}
}

func applyListingInput(l *models.Listing, in models.ListingInput) {
	l.CropType = strings.TrimSpace(in.CropType)
	l.Variety = strings.TrimSpace(in.Variety)
	l.Category = in.Category
	if l.Category == "" {
		l.Category = "crop"
	}
	l.Quantity = in.Quantity
	l.Unit = in.Unit
	if l.Unit == "" {
		l.Unit = "kg"
	}
	l.Quality = in.Quality
	if in.ExpectedPrice != nil {
		l.ExpectedPrice = *in.ExpectedPrice
	}
	l.Negotiable = true
	if in.Negotiable != nil {
		l.Negotiable = *in.Negotiable
	}
	l.Description = strings.TrimSpace(in.Description)
	l.HarvestDate = in.HarvestDate
	l.Location = trimLocation(in.Location)
	if in.Status != "" {
		l.Status = in.Status
	}
}
