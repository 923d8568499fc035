package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jafarshop/storefront/internal/domain"
	apperrors "github.com/jafarshop/storefront/pkg/errors"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetBySessionToken finds the active user by the sha256 lookup of token and
// confirms the match against the bcrypt hash.
func (r *userRepository) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	query := `
		SELECT id, email, session_token_hash, session_token_lookup, is_active, created_at, updated_at
		FROM users
		WHERE session_token_lookup = $1 AND is_active = true
	`

	lookup := SessionTokenLookup(token)

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, lookup).Scan(
		&user.ID,
		&user.Email,
		&user.SessionTokenHash,
		&user.SessionTokenLookup,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r.getLegacyBySessionToken(ctx, token, lookup)
	}
	if err != nil {
		r.logger.Error("Failed to get user by session token", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SessionTokenHash), []byte(token)); err != nil {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid session token"}
	}
	return &user, nil
}

// getLegacyBySessionToken checks users created before the lookup column existed.
// A match gets its lookup filled in so the next request takes the indexed path.
func (r *userRepository) getLegacyBySessionToken(ctx context.Context, token, lookup string) (*domain.User, error) {
	query := `
		SELECT id, email, session_token_hash, is_active, created_at, updated_at
		FROM users
		WHERE session_token_lookup IS NULL AND is_active = true
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var match *domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.SessionTokenHash,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.SessionTokenHash), []byte(token)); err == nil {
			match = &user
			break
		}
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate users", zap.Error(err))
		return nil, err
	}
	rows.Close()

	if match == nil {
		return nil, &apperrors.ErrUnauthorized{Message: "invalid session token"}
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET session_token_lookup = $1, updated_at = $2 WHERE id = $3`,
		lookup, time.Now(), match.ID,
	)
	if err != nil {
		r.logger.Warn("Failed to backfill session token lookup", zap.String("user_id", match.ID.String()), zap.Error(err))
	} else {
		match.SessionTokenLookup = lookup
	}
	return match, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, session_token_hash, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.SessionTokenHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get user by ID", zap.Error(err))
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, session_token_hash, session_token_lookup, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.SessionTokenHash,
		nullIfEmpty(user.SessionTokenLookup),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return err
	}

	return nil
}

// HashSessionToken hashes a session token for storage
func HashSessionToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SessionTokenLookup is the indexed sha256 digest of a session token
func SessionTokenLookup(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
