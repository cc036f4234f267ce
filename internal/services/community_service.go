package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/events"
	"krishilink/internal/query"
	"krishilink/internal/utils"
)

type CommunityService struct {
	Questions QuestionStore
	Events    events.Publisher
	Now       func() time.Time
}

func (s CommunityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s CommunityService) List(ctx context.Context, params map[string]string) ([]models.Question, query.Pagination, error) {
	pred, err := QuestionFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	page := query.ParsePage(params, QuestionPageSize)
	items, total, err := s.Questions.List(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

// View increments the view counter and returns the question with answers.
func (s CommunityService) View(ctx context.Context, id int64) (*models.Question, error) {
	if err := s.Questions.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.Questions.Get(ctx, id)
}

func (s CommunityService) Ask(ctx context.Context, p domain.Principal, in models.QuestionInput) (*models.Question, error) {
	now := s.now()
	q := &models.Question{
		AuthorID:  p.UserID,
		Title:     utils.NormalizeSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Category:  in.Category,
		Tags:      utils.CleanList(in.Tags),
		Answers:   []models.Answer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if q.Category == "" {
		q.Category = "general"
	}
	if !slices.Contains(models.QuestionCategories, q.Category) {
		return nil, domain.ValidationError{Field: "category", Msg: "Invalid category"}
	}
	id, err := s.Questions.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	utils.LogEventCtx(ctx, "community", "ask", fmt.Sprintf("question_id=%d author_id=%d", id, p.UserID))
	return s.Questions.Get(ctx, id)
}

// Answer appends an answer and returns the updated question.
func (s CommunityService) Answer(ctx context.Context, p domain.Principal, questionID int64, in models.AnswerInput) (*models.Question, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, domain.ValidationError{Field: "content", Msg: "Answer content is required"}
	}
	a := &models.Answer{QuestionID: questionID, AuthorID: p.UserID, Content: content, CreatedAt: s.now()}
	answerID, err := s.Questions.AddAnswer(ctx, a)
	if err != nil {
		return nil, err
	}
	utils.LogEventCtx(ctx, "community", "answer", fmt.Sprintf("question_id=%d answer_id=%d", questionID, answerID))
	if s.Events != nil {
		ev := events.AnswerEvent{QuestionID: questionID, AnswerID: answerID, AuthorID: p.UserID}
		if err := s.Events.PublishJSON(ctx, events.QuestionAnswered, ev); err != nil {
			utils.LogEventCtx(ctx, "events", events.QuestionAnswered, "publish failed: "+err.Error())
		}
	}
	return s.Questions.Get(ctx, questionID)
}

func (s CommunityService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	q, err := s.Questions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(q.AuthorID, p, "delete", "question"); err != nil {
		return err
	}
	if err := s.Questions.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEventCtx(ctx, "community", "delete", fmt.Sprintf("question_id=%d", id))
	return nil
}
