package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"krishilink/internal/db"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

// QuestionRepository stores questions (alias q) together with their
// answers. Answers are only written through AddAnswer so answers_count
// stays equal to the number of answer rows.
type QuestionRepository struct {
	DB *sql.DB
}

func (r QuestionRepository) db() *sql.DB { return pick(r.DB) }

const questionSelect = `
	SELECT
		q.id, q.author_id, q.title, q.body, q.category, COALESCE(q.tags,'[]'),
		q.votes, q.views, q.answers_count, q.is_resolved, q.created_at, q.updated_at,
		u.id, COALESCE(u.name,''), COALESCE(u.state,''), COALESCE(u.district,'')
	FROM questions q
	LEFT JOIN users u ON u.id = q.author_id`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var (
		q                models.Question
		tags             string
		uid              sql.NullInt64
		uname, ust, udis string
	)
	err := row.Scan(
		&q.ID, &q.AuthorID, &q.Title, &q.Content, &q.Category, &tags,
		&q.Votes, &q.Views, &q.AnswersCount, &q.IsResolved, &q.CreatedAt, &q.UpdatedAt,
		&uid, &uname, &ust, &udis,
	)
	if err != nil {
		return nil, err
	}
	q.Tags = db.DecodeList(tags)
	q.Answers = []models.Answer{}
	q.Author = owner(uid, uname, "", ust, udis)
	return &q, nil
}

// List returns question summaries without their answers.
func (r QuestionRepository) List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Question, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "questions q", p)
	if err != nil {
		return nil, 0, err
	}

	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, questionSelect+`
		WHERE `+where+`
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *q)
	}
	return out, total, rows.Err()
}

// Get loads a question with its answers, oldest answer first.
func (r QuestionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	q, err := scanQuestion(conn.QueryRowContext(ctx, questionSelect+` WHERE q.id = ? LIMIT 1`, id))
	if err != nil {
		return nil, notFound("question", err)
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT a.id, a.question_id, a.author_id, a.content, a.votes, a.is_accepted, a.created_at,
			u.id, COALESCE(u.name,''), COALESCE(u.state,''), COALESCE(u.district,'')
		FROM answers a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.question_id = ?
		ORDER BY a.created_at ASC, a.id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a                models.Answer
			uid              sql.NullInt64
			uname, ust, udis string
		)
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Content, &a.Votes, &a.IsAccepted, &a.CreatedAt,
			&uid, &uname, &ust, &udis); err != nil {
			return nil, err
		}
		a.Author = owner(uid, uname, "", ust, udis)
		q.Answers = append(q.Answers, a)
	}
	return q, rows.Err()
}

func (r QuestionRepository) Create(ctx context.Context, q *models.Question) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO questions (author_id, title, body, category, tags, votes, views, answers_count,
			is_resolved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, 0, 0, ?, ?)`,
		q.AuthorID, q.Title, q.Content, q.Category, db.EncodeList(q.Tags), q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return res.LastInsertId()
}

// Delete removes a question and its answers in one transaction.
func (r QuestionRepository) Delete(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id = ?`, id); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if err := mustAffect(res, "question"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (r QuestionRepository) IncrementViews(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	res, err := conn.ExecContext(ctx, `UPDATE questions SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return mustAffect(res, "question")
}

// AddAnswer bumps answers_count and inserts the answer in one transaction.
// The counter update runs first so a missing question aborts before any
// answer row is written.
func (r QuestionRepository) AddAnswer(ctx context.Context, a *models.Answer) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE questions SET answers_count = answers_count + 1, updated_at = ? WHERE id = ?`,
		now, a.QuestionID)
	if err != nil {
		return 0, fmt.Errorf("update answers_count: %w", err)
	}
	if err := mustAffect(res, "question"); err != nil {
		return 0, err
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO answers (question_id, author_id, content, votes, is_accepted, created_at)
		VALUES (?, ?, ?, 0, 0, ?)`,
		a.QuestionID, a.AuthorID, a.Content, a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return id, nil
}
