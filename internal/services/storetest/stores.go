// Package storetest provides in-memory implementations of the service store
// interfaces for service and handler tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/query/querytest"
)

func window[T any](all []T, page query.Page) []T {
	start := page.Skip()
	if start >= len(all) {
		return []T{}
	}
	end := min(start+page.Limit, len(all))
	return append([]T{}, all[start:end]...)
}

func summary(u *Users, id int64) *models.Owner {
	if u == nil {
		return nil
	}
	usr, err := u.FindByID(context.Background(), id)
	if err != nil {
		return nil
	}
	return &models.Owner{ID: usr.ID, Name: usr.Name, Phone: usr.Phone, State: usr.Location.State, District: usr.Location.District}
}

type Users struct {
	mu    sync.Mutex
	next  int64
	items map[int64]models.User
}

func NewUsers() *Users { return &Users{items: map[int64]models.User{}} }

func (s *Users) Create(_ context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Email == u.Email {
			return 0, domain.ConflictError{Resource: "user", Msg: "User already exists with this email"}
		}
		if u.Username != "" && existing.Username == u.Username {
			return 0, domain.ConflictError{Resource: "user", Msg: "Username already taken"}
		}
	}
	s.next++
	cp := *u
	cp.ID = s.next
	s.items[cp.ID] = cp
	return cp.ID, nil
}

func (s *Users) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	return &u, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "user"}
}

func (s *Users) Taken(_ context.Context, email, username string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var e, n bool
	for _, u := range s.items {
		e = e || u.Email == email
		n = n || (username != "" && u.Username == username)
	}
	return e, n, nil
}

func (s *Users) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	u.LastLogin = &at
	s.items[id] = u
	return nil
}

func (s *Users) UpdateProfile(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[u.ID]; !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	s.items[u.ID] = *u
	return nil
}

type Listings struct {
	mu    sync.Mutex
	next  int64
	items map[int64]models.Listing
	Users *Users
}

func NewListings(users *Users) *Listings {
	return &Listings{items: map[int64]models.Listing{}, Users: users}
}

func listingRow(l models.Listing) map[string]any {
	return map[string]any{
		"l.seller_id":      l.SellerID,
		"l.crop_type":      l.CropType,
		"l.variety":        l.Variety,
		"l.description":    l.Description,
		"l.category":       l.Category,
		"l.quality":        l.Quality,
		"l.unit":           l.Unit,
		"l.state":          l.Location.State,
		"l.district":       l.Location.District,
		"l.village":        l.Location.Village,
		"l.expected_price": l.ExpectedPrice,
		"l.status":         l.Status,
	}
}

func (s *Listings) List(_ context.Context, p query.Predicate, page query.Page) ([]models.Listing, int, error) {
	s.mu.Lock()
	var all []models.Listing
	for _, l := range s.items {
		if querytest.Match(p, listingRow(l)) {
			all = append(all, l)
		}
	}
	s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	out := window(all, page)
	for i := range out {
		out[i].Seller = summary(s.Users, out[i].SellerID)
	}
	return out, len(all), nil
}

func (s *Listings) Get(_ context.Context, id int64) (*models.Listing, error) {
	s.mu.Lock()
	l, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "listing"}
	}
	l.Images = append([]string{}, l.Images...)
	l.Seller = summary(s.Users, l.SellerID)
	return &l, nil
}

func (s *Listings) Create(_ context.Context, l *models.Listing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	cp := *l
	cp.ID = s.next
	cp.Views, cp.ContactCount = 0, 0
	s.items[cp.ID] = cp
	return cp.ID, nil
}

func (s *Listings) Update(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.items[l.ID]
	if !ok {
		return domain.NotFoundError{Resource: "listing"}
	}
	cp := *l
	cp.Views, cp.ContactCount = old.Views, old.ContactCount
	s.items[l.ID] = cp
	return nil
}

func (s *Listings) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.NotFoundError{Resource: "listing"}
	}
	delete(s.items, id)
	return nil
}

func (s *Listings) IncrementViews(_ context.Context, id int64) error {
	return s.bump(id, func(l *models.Listing) { l.Views++ })
}

func (s *Listings) IncrementContacts(_ context.Context, id int64) error {
	return s.bump(id, func(l *models.Listing) { l.ContactCount++ })
}

func (s *Listings) bump(id int64, f func(*models.Listing)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "listing"}
	}
	f(&l)
	s.items[id] = l
	return nil
}

type Tools struct {
	mu    sync.Mutex
	next  int64
	items map[int64]models.Tool
	Users *Users
}

func NewTools(users *Users) *Tools { return &Tools{items: map[int64]models.Tool{}, Users: users} }

func toolRow(t models.Tool) map[string]any {
	return map[string]any{
		"t.owner_id":     t.OwnerID,
		"t.tool_name":    t.ToolName,
		"t.description":  t.Description,
		"t.brand":        t.Specifications.Brand,
		"t.category":     t.Category,
		"t.tool_type":    t.ToolType,
		"t.state":        t.Location.State,
		"t.district":     t.Location.District,
		"t.price":        t.Price,
		"t.availability": t.Availability,
	}
}

func (s *Tools) List(_ context.Context, p query.Predicate, page query.Page) ([]models.Tool, int, error) {
	s.mu.Lock()
	var all []models.Tool
	for _, t := range s.items {
		if querytest.Match(p, toolRow(t)) {
			all = append(all, t)
		}
	}
	s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	out := window(all, page)
	for i := range out {
		out[i].Owner = summary(s.Users, out[i].OwnerID)
	}
	return out, len(all), nil
}

func (s *Tools) Get(_ context.Context, id int64) (*models.Tool, error) {
	s.mu.Lock()
	t, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "tool"}
	}
	t.Owner = summary(s.Users, t.OwnerID)
	return &t, nil
}

func (s *Tools) Create(_ context.Context, t *models.Tool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	cp := *t
	cp.ID = s.next
	s.items[cp.ID] = cp
	return cp.ID, nil
}

func (s *Tools) Update(_ context.Context, t *models.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[t.ID]; !ok {
		return domain.NotFoundError{Resource: "tool"}
	}
	s.items[t.ID] = *t
	return nil
}

func (s *Tools) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.NotFoundError{Resource: "tool"}
	}
	delete(s.items, id)
	return nil
}
