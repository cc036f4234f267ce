package repositories

import (
	"context"
	"testing"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestUserCreate_DuplicateEmailIsConflict(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'a@b.com' for key 'uniq_users_email'",
	})

	_, err = UserRepository{DB: conn}.Create(context.Background(), &models.User{Email: "a@b.com"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "User already exists with this email" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'ravi' for key 'uniq_users_username'",
	})

	_, err = UserRepository{DB: conn}.Create(context.Background(), &models.User{Email: "r@b.com", Username: "ravi"})
	if !domain.IsConflict(err) || err.Error() != "Username already taken" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUserFindByEmail_LowerCases(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("FROM users WHERE email = ?").WithArgs("farmer@krishi.in").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = UserRepository{DB: conn}.FindByEmail(context.Background(), "  Farmer@Krishi.IN ")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
