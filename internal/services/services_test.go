package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"krishilink/internal/auth"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/events"
	"krishilink/internal/services/storetest"
	"krishilink/internal/storage"
)

var (
	_ UserStore        = (*storetest.Users)(nil)
	_ ListingStore     = (*storetest.Listings)(nil)
	_ ToolStore        = (*storetest.Tools)(nil)
	_ QuestionStore    = (*storetest.Questions)(nil)
	_ MarketPriceStore = (*storetest.MarketPrices)(nil)
	_ MarketplaceStore = (*storetest.Marketplace)(nil)
	_ ImageStore       = storage.Images{}
)

var fixedNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func farmerInput(email string) models.RegisterInput {
	return models.RegisterInput{
		Name:     "Ramesh Kumar",
		Email:    email,
		Password: "secret123",
		Phone:    "9876543210",
		Role:     domain.RoleFarmer,
		Location: models.Location{State: "Punjab", District: "Ludhiana", Village: "Khanna"},
	}
}

func newAuth() (AuthService, *storetest.Users) {
	users := storetest.NewUsers()
	return AuthService{Users: users, Hasher: auth.NewHasher(4), Now: clock}, users
}

func TestAuthorize_OwnerOnly(t *testing.T) {
	if err := Authorize(7, domain.Principal{UserID: 7}, "update", "listing"); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
	err := Authorize(7, domain.Principal{UserID: 8}, "update", "listing")
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err.Error() != "Not authorized to update this listing" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAuthRegister_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()

	u, err := svc.Register(ctx, farmerInput("Ramesh@Example.com"))
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if u.Email != "ramesh@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Fatalf("password was not hashed")
	}

	_, err = svc.Register(ctx, farmerInput("ramesh@example.com"))
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()

	first := farmerInput("a@example.com")
	first.Username = "ramesh"
	if _, err := svc.Register(ctx, first); err != nil {
		t.Fatalf("register error: %v", err)
	}
	second := farmerInput("b@example.com")
	second.Username = "ramesh"
	_, err := svc.Register(ctx, second)
	if !domain.IsConflict(err) || err.Error() != "Username already taken" {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestAuthLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()
	if _, err := svc.Register(ctx, farmerInput("ramesh@example.com")); err != nil {
		t.Fatalf("register error: %v", err)
	}

	_, errUnknown := svc.Login(ctx, models.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	_, errWrong := svc.Login(ctx, models.LoginInput{Email: "ramesh@example.com", Password: "wrong-pass"})
	if !domain.IsAuthentication(errUnknown) || !domain.IsAuthentication(errWrong) {
		t.Fatalf("expected authentication errors, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors differ: %q vs %q", errUnknown, errWrong)
	}

	u, err := svc.Login(ctx, models.LoginInput{Email: "RAMESH@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if u.LastLogin == nil || !u.LastLogin.Equal(fixedNow) {
		t.Fatalf("last login not recorded: %v", u.LastLogin)
	}
}

func TestAuthUpdateProfile_OnlyTouchesGivenFields(t *testing.T) {
	svc, _ := newAuth()
	ctx := context.Background()
	u, err := svc.Register(ctx, farmerInput("ramesh@example.com"))
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, Principal(u), models.ProfileUpdate{FarmSize: ptr(" 5 acres ")})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.FarmSize != "5 acres" || updated.Name != "Ramesh Kumar" || updated.Phone != "9876543210" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}

// recordingImages stands in for disk storage and remembers what was saved
// and removed.
type recordingImages struct {
	saved   []string
	removed []string
}

func (r *recordingImages) Save(kind string, ownerID int64, files []*multipart.FileHeader) ([]string, error) {
	out := make([]string, 0, len(files))
	for _, fh := range files {
		out = append(out, fmt.Sprintf("/uploads/%s/%d/%s", kind, ownerID, fh.Filename))
	}
	r.saved = append(r.saved, out...)
	return out, nil
}

func (r *recordingImages) Remove(paths []string) { r.removed = append(r.removed, paths...) }

func uploads(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(names))
	for _, n := range names {
		out = append(out, &multipart.FileHeader{Filename: n, Size: 16})
	}
	return out
}

type failingUpdates struct{ *storetest.Listings }

func (failingUpdates) Update(context.Context, *models.Listing) error { return errors.New("db down") }

type listingFixture struct {
	svc    ListingService
	users  *storetest.Users
	images *recordingImages
	events *events.Recorder
	seller domain.Principal
	buyer  domain.Principal
}

func newListingFixture(t *testing.T) listingFixture {
	t.Helper()
	users := storetest.NewUsers()
	ctx := context.Background()
	sellerID, err := users.Create(ctx, &models.User{Name: "Seller", Email: "s@example.com", Phone: "9000000001", Role: domain.RoleFarmer, IsActive: true})
	if err != nil {
		t.Fatalf("seed seller: %v", err)
	}
	buyerID, err := users.Create(ctx, &models.User{Name: "Buyer", Email: "b@example.com", Phone: "9000000002", Role: domain.RoleBuyer, IsActive: true})
	if err != nil {
		t.Fatalf("seed buyer: %v", err)
	}
	rec := &events.Recorder{}
	images := &recordingImages{}
	return listingFixture{
		svc:    ListingService{Listings: storetest.NewListings(users), Users: users, Images: images, Events: rec, Now: clock},
		users:  users,
		images: images,
		events: rec,
		seller: domain.Principal{UserID: sellerID, Role: domain.RoleFarmer},
		buyer:  domain.Principal{UserID: buyerID, Role: domain.RoleBuyer},
	}
}

func wheat() models.ListingInput {
	return models.ListingInput{
		CropType:      "Wheat",
		Quantity:      500,
		Quality:       "Grade A",
		ExpectedPrice: ptr(2200.0),
		Location:      models.Location{State: "Punjab", District: "Ludhiana", Village: "Khanna"},
	}
}

func TestListingCreate_AppliesDefaults(t *testing.T) {
	f := newListingFixture(t)
	in := wheat()
	in.Status = models.ListingSold

	l, err := f.svc.Create(context.Background(), f.seller, in, uploads("a.jpg"))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if l.Status != models.ListingActive || l.Category != "crop" || l.Unit != "kg" || !l.Negotiable {
		t.Fatalf("defaults not applied: %+v", l)
	}
	if l.Views != 0 || l.ContactCount != 0 {
		t.Fatalf("counters should start at zero: %+v", l)
	}
	if l.ExpiryDate == nil || !l.ExpiryDate.Equal(fixedNow.Add(models.ListingLifetime)) {
		t.Fatalf("unexpected expiry: %v", l.ExpiryDate)
	}
	if len(l.Images) != 1 || l.Images[0] != fmt.Sprintf("/uploads/listings/%d/a.jpg", f.seller.UserID) {
		t.Fatalf("unexpected images: %v", l.Images)
	}
	if l.Seller == nil || l.Seller.Name != "Seller" {
		t.Fatalf("seller not populated: %+v", l.Seller)
	}
	if keys := f.events.Keys(); len(keys) != 1 || keys[0] != events.ListingCreated {
		t.Fatalf("unexpected events: %v", keys)
	}
}

func TestListingList_OnlyActive(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	a, _ := f.svc.Create(ctx, f.seller, wheat(), nil)
	b, _ := f.svc.Create(ctx, f.seller, wheat(), nil)

	sold := wheat()
	sold.Status = models.ListingSold
	if _, err := f.svc.Update(ctx, f.seller, b.ID, sold, nil); err != nil {
		t.Fatalf("update error: %v", err)
	}

	items, page, err := f.svc.List(ctx, map[string]string{"cropType": "whe"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID || page.Total != 1 {
		t.Fatalf("unexpected list: %+v %+v", items, page)
	}

	mine, _, err := f.svc.Mine(ctx, f.seller, map[string]string{})
	if err != nil || len(mine) != 2 {
		t.Fatalf("mine should include sold listings: %v %d", err, len(mine))
	}
}

func TestListingList_RejectsBadPriceBound(t *testing.T) {
	f := newListingFixture(t)
	_, _, err := f.svc.List(context.Background(), map[string]string{"minPrice": "cheap"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListingUpdate_NonOwnerForbiddenAndUnchanged(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	l, _ := f.svc.Create(ctx, f.seller, wheat(), nil)

	in := wheat()
	in.CropType = "Rice"
	if _, err := f.svc.Update(ctx, f.buyer, l.ID, in, uploads("x.jpg")); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.images.saved) != 0 {
		t.Fatalf("non-owner upload was stored: %v", f.images.saved)
	}
	if err := f.svc.Delete(ctx, f.buyer, l.ID); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	got, err := f.svc.Listings.Get(ctx, l.ID)
	if err != nil || got.CropType != "Wheat" {
		t.Fatalf("listing changed: %v %+v", err, got)
	}
}

func TestListingUpdate_ImageCap(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	l, _ := f.svc.Create(ctx, f.seller, wheat(), uploads("1.jpg", "2.jpg", "3.jpg", "4.jpg"))

	if _, err := f.svc.Update(ctx, f.seller, l.ID, wheat(), uploads("5.jpg", "6.jpg")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.images.saved) != 4 {
		t.Fatalf("rejected update stored files: %v", f.images.saved)
	}
	updated, err := f.svc.Update(ctx, f.seller, l.ID, wheat(), uploads("5.jpg"))
	if err != nil || len(updated.Images) != 5 {
		t.Fatalf("expected 5 images: %v %+v", err, updated)
	}
	if _, err := f.svc.Create(ctx, f.seller, wheat(), uploads("1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error on create, got %v", err)
	}
}

func TestListingUpdate_StoreFailureRemovesNewImages(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	l, err := f.svc.Create(ctx, f.seller, wheat(), nil)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	svc := f.svc
	svc.Listings = failingUpdates{f.svc.Listings.(*storetest.Listings)}
	if _, err := svc.Update(ctx, f.seller, l.ID, wheat(), uploads("late.jpg")); err == nil {
		t.Fatalf("expected store error")
	}
	if len(f.images.removed) != 1 || f.images.removed[0] != f.images.saved[0] {
		t.Fatalf("saved image not cleaned up: saved=%v removed=%v", f.images.saved, f.images.removed)
	}
}

func TestListingCreate_WithoutImageStore(t *testing.T) {
	f := newListingFixture(t)
	f.svc.Images = nil
	if _, err := f.svc.Create(context.Background(), f.seller, wheat(), nil); err != nil {
		t.Fatalf("create without uploads should not need storage: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.seller, wheat(), uploads("a.jpg")); err == nil {
		t.Fatalf("expected error when uploads arrive without storage")
	}
}

func TestListingViewAndContact_Counters(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	l, _ := f.svc.Create(ctx, f.seller, wheat(), nil)

	for range 3 {
		if _, err := f.svc.View(ctx, l.ID); err != nil {
			t.Fatalf("view error: %v", err)
		}
	}
	contact, err := f.svc.Contact(ctx, f.buyer, l.ID)
	if err != nil {
		t.Fatalf("contact error: %v", err)
	}
	if contact.Phone != "9000000001" || contact.Email != "s@example.com" {
		t.Fatalf("unexpected contact: %+v", contact)
	}
	keys := f.events.Keys()
	if keys[len(keys)-1] != events.ListingContacted {
		t.Fatalf("contact not published: %v", keys)
	}
	ev := f.events.Events[len(f.events.Events)-1].Payload.(events.ListingEvent)
	if ev.BuyerID != f.buyer.UserID || ev.SellerID != f.seller.UserID {
		t.Fatalf("unexpected event: %+v", ev)
	}
	got, _ := f.svc.Listings.Get(ctx, l.ID)
	if got.Views != 3 || got.ContactCount != 1 {
		t.Fatalf("counters: views=%d contacts=%d", got.Views, got.ContactCount)
	}
	if _, err := f.svc.View(ctx, 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToolService_AvailabilityAndOwnership(t *testing.T) {
	users := storetest.NewUsers()
	svc := ToolService{Tools: storetest.NewTools(users), Now: clock}
	ctx := context.Background()
	owner := domain.Principal{UserID: 1}

	in := models.ToolInput{
		ToolName:  "Tractor 575",
		Category:  "tractor",
		ToolType:  "rent",
		Price:     ptr(1500.0),
		Condition: "good",
		Location:  models.Location{State: "Punjab", District: "Ludhiana", Village: "Khanna"},
	}
	tool, err := svc.Create(ctx, owner, in)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if tool.PriceUnit != "per_day" || !tool.Availability {
		t.Fatalf("defaults not applied: %+v", tool)
	}

	in.Availability = ptr(false)
	if _, err := svc.Update(ctx, domain.Principal{UserID: 2}, tool.ID, in); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, owner, tool.ID, in); err != nil {
		t.Fatalf("update error: %v", err)
	}
	items, _, err := svc.List(ctx, map[string]string{})
	if err != nil || len(items) != 0 {
		t.Fatalf("unavailable tool should be hidden: %v %d", err, len(items))
	}
}

func TestCommunityAnswer_KeepsCountInSync(t *testing.T) {
	users := storetest.NewUsers()
	rec := &events.Recorder{}
	svc := CommunityService{Questions: storetest.NewQuestions(users), Events: rec, Now: clock}
	ctx := context.Background()
	author := domain.Principal{UserID: 1}

	q, err := svc.Ask(ctx, author, models.QuestionInput{Title: "Wheat rust", Content: "Leaves have orange spots", Tags: []string{"wheat", " wheat", "rust"}})
	if err != nil {
		t.Fatalf("ask error: %v", err)
	}
	if q.Category != "general" || len(q.Tags) != 2 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if _, err := svc.Ask(ctx, author, models.QuestionInput{Title: "Rain", Content: "When?", Category: "astrology"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}

	if _, err := svc.Answer(ctx, domain.Principal{UserID: 2}, q.ID, models.AnswerInput{Content: "   "}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, c := range []string{"Spray propiconazole", "Use resistant seed"} {
		if _, err := svc.Answer(ctx, domain.Principal{UserID: 2}, q.ID, models.AnswerInput{Content: c}); err != nil {
			t.Fatalf("answer error: %v", err)
		}
	}
	got, err := svc.View(ctx, q.ID)
	if err != nil {
		t.Fatalf("view error: %v", err)
	}
	if got.AnswersCount != int64(len(got.Answers)) || got.AnswersCount != 2 {
		t.Fatalf("count %d for %d answers", got.AnswersCount, len(got.Answers))
	}
	if _, err := svc.Answer(ctx, author, 999, models.AnswerInput{Content: "x"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	tagged, _, err := svc.List(ctx, map[string]string{"tag": "rust"})
	if err != nil || len(tagged) != 1 {
		t.Fatalf("tag filter: %v %d", err, len(tagged))
	}
	if err := svc.Delete(ctx, domain.Principal{UserID: 2}, q.ID); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func seedPrices(t *testing.T, svc MarketService) {
	t.Helper()
	rows := []struct {
		crop    string
		state   string
		daysAgo int
	}{
		{"Wheat", "Punjab", 2},
		{"wheat", "Haryana", 10},
		{"wheat", "Punjab", 90},
		{"rice", "Punjab", 1},
	}
	for _, r := range rows {
		_, err := svc.Create(context.Background(), models.MarketPriceInput{
			Crop: r.crop, Market: "Khanna Mandi", State: r.state, District: "Ludhiana",
			Price: models.PriceRange{Min: 2000, Max: 2400, Modal: 2200},
			Date:  fixedNow.Add(-time.Duration(r.daysAgo) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("seed price: %v", err)
		}
	}
}

func TestMarketCreate_ValidatesPriceOrder(t *testing.T) {
	svc := MarketService{Prices: storetest.NewMarketPrices(), Now: clock}
	_, err := svc.Create(context.Background(), models.MarketPriceInput{
		Crop: "wheat", Market: "m", State: "s", District: "d",
		Price: models.PriceRange{Min: 2500, Max: 2400, Modal: 2450},
		Date:  fixedNow,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarketTrend_WindowAndOrder(t *testing.T) {
	svc := MarketService{Prices: storetest.NewMarketPrices(), Now: clock}
	seedPrices(t, svc)
	ctx := context.Background()

	points, err := svc.Trend(ctx, "whe", map[string]string{})
	if err != nil {
		t.Fatalf("trend error: %v", err)
	}
	if len(points) != 2 || !points[0].Date.Before(points[1].Date) {
		t.Fatalf("unexpected trend: %+v", points)
	}

	points, err = svc.Trend(ctx, "wheat", map[string]string{"days": "120", "state": "punjab"})
	if err != nil || len(points) != 2 {
		t.Fatalf("regional trend: %v %d", err, len(points))
	}
	if _, err := svc.Trend(ctx, "wheat", map[string]string{"days": "0"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarketList_FiltersAndDistinctValues(t *testing.T) {
	svc := MarketService{Prices: storetest.NewMarketPrices(), Now: clock}
	seedPrices(t, svc)

	res, err := svc.List(context.Background(), map[string]string{"crop": "wheat", "state": "punjab"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if res.Pagination.Total != 2 {
		t.Fatalf("expected 2 prices, got %d", res.Pagination.Total)
	}
	if len(res.Filters.Crops) != 2 || res.Filters.Crops[0] != "rice" {
		t.Fatalf("unexpected filters: %+v", res.Filters)
	}
	if !res.Prices[0].Date.After(res.Prices[1].Date) {
		t.Fatalf("prices should be newest first")
	}
}

func TestMarketReport_ProducesPDF(t *testing.T) {
	svc := MarketService{Prices: storetest.NewMarketPrices(), Now: clock}
	seedPrices(t, svc)

	pdf, filename, err := svc.Report(context.Background(), map[string]string{"crop": "wheat"})
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "market-prices-2024-06-15.pdf" {
		t.Fatalf("unexpected filename: %q", filename)
	}
}

func TestMarketplace_DefaultsAndFilters(t *testing.T) {
	svc := MarketplaceService{Store: storetest.NewMarketplace(), Now: clock}
	ctx := context.Background()

	m, err := svc.AddMandiPrice(ctx, models.MandiPriceInput{MandiName: "Azadpur", Crop: "Onion"})
	if err != nil || m.Unit != "kg" || !m.Date.Equal(fixedNow) {
		t.Fatalf("mandi price: %v %+v", err, m)
	}
	f, err := svc.AddFarmerListing(ctx, models.FarmerListingInput{Crop: "Onion", Quantity: ptr(10.0), PricePerUnit: ptr(25.0)})
	if err != nil || f.Status != models.FarmerListingActive {
		t.Fatalf("farmer listing: %v %+v", err, f)
	}
	b, err := svc.AddBuyerRequirement(ctx, models.BuyerRequirementInput{Crop: "Onion", MinQty: ptr(5.0), MaxPricePerUnit: ptr(30.0)})
	if err != nil || b.Status != models.RequirementOpen {
		t.Fatalf("buyer requirement: %v %+v", err, b)
	}

	items, _, err := svc.FarmerListings(ctx, map[string]string{"maxPrice": "20"})
	if err != nil || len(items) != 0 {
		t.Fatalf("price filter: %v %d", err, len(items))
	}
	prices, _, err := svc.MandiPrices(ctx, map[string]string{"mandi": "azad"})
	if err != nil || len(prices) != 1 {
		t.Fatalf("mandi filter: %v %d", err, len(prices))
	}
}
