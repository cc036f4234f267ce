package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"krishilink/internal/auth"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/utils"
)

// invalidCredentials is returned for an unknown email and a wrong password
// alike.
var invalidCredentials = domain.AuthenticationError{Msg: "Invalid credentials"}

type AuthService struct {
	Users  UserStore
	Hasher auth.Hasher
	Now    func() time.Time
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	emailTaken, usernameTaken, err := s.Users.Taken(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, domain.ConflictError{Resource: "user", Msg: "User already exists with this email"}
	}
	if usernameTaken {
		return nil, domain.ConflictError{Resource: "user", Msg: "Username already taken"}
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.InternalError{Msg: "could not hash password", Err: err}
	}

	now := s.now()
	u := &models.User{
		Name:         utils.NormalizeSpace(in.Name),
		Username:     username,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         in.Role,
		Location:     trimLocation(in.Location),
		FarmSize:     strings.TrimSpace(in.FarmSize),
		CropTypes:    utils.CleanList(in.CropTypes),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Create reports a ConflictError when a concurrent registration wins.
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	utils.LogEventCtx(ctx, "auth", "register", fmt.Sprintf("user_id=%d role=%s", id, u.Role))
	return u, nil
}

// Login verifies credentials and records the login time.
func (s AuthService) Login(ctx context.Context, in models.LoginInput) (*models.User, error) {
	u, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, invalidCredentials
		}
		return nil, err
	}
	if err := s.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, invalidCredentials
		}
		return nil, domain.InternalError{Msg: "could not verify password", Err: err}
	}
	if !u.IsActive {
		return nil, invalidCredentials
	}

	now := s.now()
	if err := s.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		utils.LogEventCtx(ctx, "auth", "login", fmt.Sprintf("user_id=%d last_login update failed: %v", u.ID, err))
	} else {
		u.LastLogin = &now
	}
	utils.LogEventCtx(ctx, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return u, nil
}

func (s AuthService) Me(ctx context.Context, p domain.Principal) (*models.User, error) {
	return s.Users.FindByID(ctx, p.UserID)
}

func (s AuthService) UpdateProfile(ctx context.Context, p domain.Principal, in models.ProfileUpdate) (*models.User, error) {
	u, err := s.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = utils.NormalizeSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Location != nil {
		u.Location = trimLocation(*in.Location)
	}
	if in.FarmSize != nil {
		u.FarmSize = strings.TrimSpace(*in.FarmSize)
	}
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now()
	return u, nil
}

// Principal is the identity bound to a session or token after login.
func Principal(u *models.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func trimLocation(l models.Location) models.Location {
	return models.Location{
		State:    utils.NormalizeSpace(l.State),
		District: utils.NormalizeSpace(l.District),
		Village:  utils.NormalizeSpace(l.Village),
	}
}
