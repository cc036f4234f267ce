package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"krishilink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair is what clients receive after register, login or refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Tokens signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets, so one can never be presented as the other.
type Tokens struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokens(cfg TokenConfig) *Tokens {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Tokens{cfg: cfg, now: time.Now}
}

func (t *Tokens) IssuePair(p domain.Principal) (TokenPair, error) {
	access, err := t.sign(p, kindAccess, []byte(t.cfg.AccessSecret), t.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(p, kindRefresh, []byte(t.cfg.RefreshSecret), t.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refresh}, nil
}

func (t *Tokens) ParseAccess(raw string) (domain.Principal, error) {
	return t.parse(raw, kindAccess, []byte(t.cfg.AccessSecret))
}

func (t *Tokens) ParseRefresh(raw string) (domain.Principal, error) {
	return t.parse(raw, kindRefresh, []byte(t.cfg.RefreshSecret))
}

func (t *Tokens) sign(p domain.Principal, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.cfg.Issuer,
			Subject:   domain.IDString(p.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return s, nil
}

func (t *Tokens) parse(raw, kind string, secret []byte) (domain.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Principal{}, domain.AuthenticationError{Msg: "No token provided"}
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.AuthenticationError{Msg: "Token expired", Err: err}
		}
		return domain.Principal{}, domain.AuthenticationError{Msg: "Invalid token", Err: err}
	}
	if claims.Kind != kind || claims.UserID == 0 {
		return domain.Principal{}, domain.AuthenticationError{Msg: "Invalid token"}
	}
	return domain.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
