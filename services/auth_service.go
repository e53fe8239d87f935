package services

import (
	"fmt"
	"time"

	"chat-core/auth"
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
)

type IAuthService interface {
	Signup(req auth.SignupRequest) (domain.User, error)
	Login(username, password string) (Token, error)
	Verify(token string) (string, error)
}

type Token string

type AuthService struct {
	users  repositories.IUserRepository
	tokens auth.TokenManager
}

func NewAuthService(users repositories.IUserRepository, tokens auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup validates the request, hashes the password, and persists the new
// account with the default permission grant.
func (s *AuthService) Signup(req auth.SignupRequest) (domain.User, error) {
	// Field rules come first, before any expensive hashing.
	if err := auth.ValidateSignup(req); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", errors.ErrMalformedData, err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: hashed,
		DOB:          req.DOB,
		Permissions:  domain.DefaultPermissions,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login checks the credentials and issues a session token. Failures stay
// generic to avoid leaking which accounts exist.
func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.users.GetUser(username)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// Verify resolves a session token back to its username.
func (s *AuthService) Verify(token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}
	return claims.Username, nil
}
