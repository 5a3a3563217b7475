package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkease/internal/db"
	apperrors "parkease/internal/errors"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	query := `
		INSERT INTO users (username, password_hash, name, phone, address, pincode, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Name, user.Phone, user.Address, user.Pincode, user.IsSuperuser,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username, phone or address already registered", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	query := `
		SELECT id, username, password_hash, name, phone, address, pincode, is_superuser, created_at
		FROM users WHERE username = $1`
	err := r.DB.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Address, &user.Pincode, &user.IsSuperuser, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user '%s': %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("UserRepository.GetByUsername: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*db.User, error) {
	var user db.User
	query := `
		SELECT id, username, password_hash, name, phone, address, pincode, is_superuser, created_at
		FROM users WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Address, &user.Pincode, &user.IsSuperuser, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("UserRepository.GetByID: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *db.User) error {
	query := `
		UPDATE users SET password_hash = $2, name = $3, phone = $4, address = $5, pincode = $6
		WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query,
		user.ID, user.PasswordHash, user.Name, user.Phone, user.Address, user.Pincode)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: phone or address already in use", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("UserRepository.UpdateProfile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UserRepository.UpdateProfile: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", user.ID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	query := `
		SELECT id, username, name, phone, address, pincode, is_superuser, created_at
		FROM users ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.Phone,
			&user.Address, &user.Pincode, &user.IsSuperuser, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("UserRepository.List scan: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) SuperuserExists(ctx context.Context) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_superuser`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("UserRepository.SuperuserExists: %w", err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return false
}
