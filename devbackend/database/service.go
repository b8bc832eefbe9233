package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// The auth error lines mirror the managed provider's wording so client-side
// message classification behaves the same against the dev backend.
var (
	ErrNoUser        = errors.New("no user record for this identifier")
	ErrWrongPassword = errors.New("password is invalid for the given account")
	ErrEmailTaken    = errors.New("email address is already in use by another account")
)

// User is one dev backend account.
type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// Service handles accounts, tokens and the document store.
type Service struct {
	db        *sql.DB
	jwtSecret []byte
}

func NewService(db *sql.DB, jwtSecret string) *Service {
	return &Service{
		db:        db,
		jwtSecret: []byte(jwtSecret),
	}
}

// CreateUser registers an account and returns it with a fresh token.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*User, string, error) {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM auth_users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("failed to check user existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO auth_users (id, email, password_hash) VALUES (?, ?, ?)",
		userID, email, string(hash))
	if err != nil {
		return nil, "", fmt.Errorf("failed to insert user: %w", err)
	}

	token, err := s.issueToken(userID)
	if err != nil {
		return nil, "", err
	}

	return &User{ID: userID, Email: email}, token, nil
}

// Authenticate checks credentials and returns the account with a token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	var (
		user User
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, avatar_url, password_hash FROM auth_users WHERE email = ?",
		email).Scan(&user.ID, &user.Name, &user.AvatarURL, &hash)
	if err == sql.ErrNoRows {
		return nil, "", ErrNoUser
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrWrongPassword
	}

	user.Email = email
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// UserByEmail looks an account up for the password-reset flow.
func (s *Service) UserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, avatar_url FROM auth_users WHERE email = ?",
		email).Scan(&user.ID, &user.Name, &user.AvatarURL)
	if err == sql.ErrNoRows {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Email = email
	return &user, nil
}

// UpdateName sets the account's display name.
func (s *Service) UpdateName(ctx context.Context, userID, name string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE auth_users SET name = ? WHERE id = ?", name, userID)
	if err != nil {
		return fmt.Errorf("failed to update name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get status of db op: %w", err)
	}
	if rows == 0 {
		return ErrNoUser
	}
	return nil
}

func (s *Service) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the user id it names.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.jwtSecret, nil
		})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}
