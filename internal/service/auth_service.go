package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkease/internal/config"
	"parkease/internal/db"
	"parkease/internal/entities"
	apperrors "parkease/internal/errors"
	"parkease/internal/repository"
)

type AuthService struct {
	Users     *repository.UserRepository
	JWTSecret string
}

func NewAuthService(users *repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{Users: users, JWTSecret: jwtSecret}
}

func (s *AuthService) Register(ctx context.Context, req entities.RegisterRequest) (*db.User, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("username, password, name, phone and address are required: %w", apperrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &db.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Pincode:      strings.TrimSpace(req.Pincode),
		IsSuperuser:  false,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *db.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"username":     user.Username,
		"is_superuser": user.IsSuperuser,
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}
	return signed, user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*db.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req entities.ProfileUpdateRequest) (*db.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("name, phone and address are required: %w", apperrors.ErrValidation)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Address = strings.TrimSpace(req.Address)
	user.Pincode = strings.TrimSpace(req.Pincode)
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.Users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]db.User, error) {
	return s.Users.List(ctx)
}

// EnsureSuperuser creates the bootstrap admin account when no superuser exists
// yet. Without a configured admin password it only logs a warning, so a fresh
// deployment never ships a baked-in credential.
func (s *AuthService) EnsureSuperuser(ctx context.Context, cfg *config.Config) error {
	exists, err := s.Users.SuperuserExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Println("No superuser exists and ADMIN_PASSWORD is not set; skipping admin bootstrap")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	admin := &db.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Name:         cfg.AdminName,
		Phone:        cfg.AdminPhone,
		Address:      cfg.AdminAddress,
		Pincode:      cfg.AdminPincode,
		IsSuperuser:  true,
	}
	if err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}
	log.Printf("Bootstrap admin %s created", admin.Username)
	return nil
}
