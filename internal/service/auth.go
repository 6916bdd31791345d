package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/repository"
	"github.com/iliyamo/escape-room-booking/internal/utils"
)

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService implements register, login and me.
type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
	dummyHash  string
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int) *AuthService {
	// compared against when the email is unknown so both login failures
	// cost one bcrypt comparison
	dummy, _ := utils.HashPassword("not-a-real-password", bcryptCost)
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, dummyHash: dummy}
}

// Register creates a user with role "user".  Email is trimmed and then
// stored and compared exactly; a taken email is a Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if err := utils.CheckPassword(in.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash, Role: model.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("create user", err)
	}
	return u, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("load user", err)
		}
		utils.VerifyPassword(s.dummyHash, password)
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &LoginResult{Token: tok.Token, ExpiresAt: tok.Exp, User: u}, nil
}

// Me loads the caller's own record.
func (s *AuthService) Me(ctx context.Context, id authz.Identity) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		return nil, notFoundOr(err, "user not found", "load user")
	}
	return u, nil
}
