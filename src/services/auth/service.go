package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

type CreateUserInput struct {
	BuildingID string `json:"buildingId" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role"`
	Password   string `json:"password" validate:"required,min=8"`
}

type Service struct {
	users   store.UserStore
	revoked utils.Ephemeral
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewService(users store.UserStore, revoked utils.Ephemeral, secret []byte, ttl time.Duration) *Service {
	return &Service{users: users, revoked: revoked, secret: secret, ttl: ttl, now: time.Now}
}

// Login checks the password and issues a token scoped to the user's building.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.users.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	token, exp, err := utils.GenerateJWT(s.secret, u.BuildingID, u.ID, s.ttl, s.now())
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}
	log.Printf("[auth] login user=%s building=%s", u.ID, u.BuildingID)
	return LoginResponse{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string, sess models.Session) error {
	return utils.BlacklistToken(ctx, s.revoked, token, sess.ExpiresAt.Sub(s.now()))
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return models.User{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = "staff"
	}
	u, err := s.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		BuildingID:   strings.TrimSpace(in.BuildingID),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return models.User{}, ErrEmailTaken
	}
	return u, err
}
