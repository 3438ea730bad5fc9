package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/app/models/dto"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
	"github.com/yiconnect/backend/internal/pkg/dberrors"
)

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "role_type",
	"chapter_id", "is_active", "email_verified", "created_at", "updated_at", "last_login_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.RoleType,
		&user.ChapterID,
		&user.IsActive,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where("email = ?", email).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// Create creates a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := squirrel.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role_type",
			"chapter_id", "is_active", "email_verified").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.RoleType,
			user.ChapterID, user.IsActive, user.EmailVerified).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// GetAll retrieves users with filtering and pagination
func (r *UserRepository) GetAll(ctx context.Context, filter dto.UserListFilter, page, pageSize int) ([]models.User, int64, error) {
	query := squirrel.Select(append(userColumns, "COUNT(*) OVER()")...).
		From("users").
		PlaceholderFormat(squirrel.Dollar)

	if filter.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filter.ChapterID)
	}
	if filter.RoleType != nil {
		query = query.Where("role_type = ?", *filter.RoleType)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern)
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("id").Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []models.User
	var total int64
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Password,
			&user.FirstName,
			&user.LastName,
			&user.RoleType,
			&user.ChapterID,
			&user.IsActive,
			&user.EmailVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLoginAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}

	return users, total, nil
}

// UpdateProfile updates a user's name fields
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("updated_at", time.Now()))
}

// UpdateRole changes a user's role and chapter assignment
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, roleType models.RoleType, chapterID *int64) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("role_type", roleType).
		Set("chapter_id", chapterID).
		Set("updated_at", time.Now()))
}

// SetActive enables or disables an account
func (r *UserRepository) SetActive(ctx context.Context, id int64, isActive bool) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("is_active", isActive).
		Set("updated_at", time.Now()))
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("password", hashedPassword).
		Set("updated_at", time.Now()))
}

// SetEmailVerified marks a user's email address as verified
func (r *UserRepository) SetEmailVerified(ctx context.Context, id int64) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("email_verified", true).
		Set("updated_at", time.Now()))
}

// UpdateLastLogin records the login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return r.update(ctx, id, squirrel.Update("users").
		Set("last_login_at", time.Now()))
}

func (r *UserRepository) update(ctx context.Context, id int64, builder squirrel.UpdateBuilder) error {
	sql, args, err := builder.Where("id = ?", id).PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
