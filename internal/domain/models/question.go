package models

import "time"

// QuestionCategories lists the accepted community board categories.
var QuestionCategories = []string{
	"crops", "livestock", "equipment", "weather", "pest_control",
	"soil", "irrigation", "marketing", "farming", "pricing", "tools",
	"general", "other",
}

// Answer belongs to exactly one question.
type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	AuthorID   int64     `json:"authorId"`
	Author     *Owner    `json:"author,omitempty"`
	Content    string    `json:"content"`
	Votes      int64     `json:"votes"`
	IsAccepted bool      `json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Question is the aggregate root of a board thread. AnswersCount always
// equals the number of stored answers.
type Question struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"authorId"`
	Author       *Owner    `json:"author,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Answers      []Answer  `json:"answers"`
	AnswersCount int64     `json:"answersCount"`
	Votes        int64     `json:"votes"`
	Views        int64     `json:"views"`
	IsResolved   bool      `json:"isResolved"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type QuestionInput struct {
	Title    string   `json:"title" binding:"required,min=5,max=200"`
	Content  string   `json:"content" binding:"required,min=10,max=2000"`
	Category string   `json:"category" binding:"omitempty,oneof=crops livestock equipment weather pest_control soil irrigation marketing farming pricing tools general other"`
	Tags     []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

type AnswerInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}
