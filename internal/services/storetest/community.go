package storetest

import (
	"context"
	"sort"
	"sync"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/query/querytest"
)

type Questions struct {
	mu      sync.Mutex
	next    int64
	nextAns int64
	items   map[int64]models.Question
	answers map[int64][]models.Answer
	Users   *Users
}

func NewQuestions(users *Users) *Questions {
	return &Questions{items: map[int64]models.Question{}, answers: map[int64][]models.Answer{}, Users: users}
}

func questionRow(q models.Question) map[string]any {
	return map[string]any{
		"q.author_id": q.AuthorID,
		"q.title":     q.Title,
		"q.body":      q.Content,
		"q.category":  q.Category,
		"q.tags":      q.Tags,
	}
}

func (s *Questions) List(_ context.Context, p query.Predicate, page query.Page) ([]models.Question, int, error) {
	s.mu.Lock()
	var all []models.Question
	for _, q := range s.items {
		if querytest.Match(p, questionRow(q)) {
			all = append(all, q)
		}
	}
	s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	out := window(all, page)
	for i := range out {
		out[i].Answers = []models.Answer{}
		out[i].Author = summary(s.Users, out[i].AuthorID)
	}
	return out, len(all), nil
}

func (s *Questions) Get(_ context.Context, id int64) (*models.Question, error) {
	s.mu.Lock()
	q, ok := s.items[id]
	ans := append([]models.Answer{}, s.answers[id]...)
	s.mu.Unlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "question"}
	}
	q.Author = summary(s.Users, q.AuthorID)
	for i := range ans {
		ans[i].Author = summary(s.Users, ans[i].AuthorID)
	}
	q.Answers = ans
	return &q, nil
}

func (s *Questions) Create(_ context.Context, q *models.Question) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	cp := *q
	cp.ID = s.next
	cp.Answers = nil
	cp.AnswersCount = 0
	s.items[cp.ID] = cp
	return cp.ID, nil
}

func (s *Questions) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.NotFoundError{Resource: "question"}
	}
	delete(s.items, id)
	delete(s.answers, id)
	return nil
}

func (s *Questions) IncrementViews(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "question"}
	}
	q.Views++
	s.items[id] = q
	return nil
}

func (s *Questions) AddAnswer(_ context.Context, a *models.Answer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[a.QuestionID]
	if !ok {
		return 0, domain.NotFoundError{Resource: "question"}
	}
	s.nextAns++
	cp := *a
	cp.ID = s.nextAns
	s.answers[q.ID] = append(s.answers[q.ID], cp)
	q.AnswersCount++
	q.UpdatedAt = cp.CreatedAt
	s.items[q.ID] = q
	return cp.ID, nil
}
