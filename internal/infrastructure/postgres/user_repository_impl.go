package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
)

const userColumns = `id, username, email, bio, image, password_salt, password_hash, password_kdf, version, created_at, updated_at`

type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := repository.Validate(u); err != nil {
		return err
	}
	now := r.now().UTC()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, email, bio, image, password_salt, password_hash, password_kdf, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)
		`, u.ID, u.Username, u.Email, u.Bio, u.Image, u.PasswordSalt, u.PasswordHash, u.PasswordKDF, now)
		if err != nil {
			return mapError("create user", err)
		}
		return insertFollows(ctx, tx, u.ID, u.Following())
	})
	if err != nil {
		return err
	}
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, "id", parsed.String())
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username", entity.NormalizeUsername(username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", entity.NormalizeEmail(email))
}

// findOne loads the user row matching column = value and its follow rows.
// column is always one of the fixed names above.
func (r *UserRepository) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Bio, &u.Image,
		&u.PasswordSalt, &u.PasswordHash, &u.PasswordKDF, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT followee_id FROM user_follows WHERE follower_id = $1 ORDER BY followee_id`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load follows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var following []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		following = append(following, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load follows: %w", err)
	}
	u.RestoreFollowing(following)
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := repository.Validate(u); err != nil {
		return err
	}
	now := r.now().UTC()
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users
			SET username = $1, email = $2, bio = $3, image = $4, password_salt = $5, password_hash = $6,
			    password_kdf = $7, version = version + 1, updated_at = $8
			WHERE id = $9 AND version = $10
		`, u.Username, u.Email, u.Bio, u.Image, u.PasswordSalt, u.PasswordHash, u.PasswordKDF, now, u.ID, u.Version)
		if err != nil {
			return mapError("update user", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n == 0 {
			return repository.ErrConflict
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_follows WHERE follower_id = $1`, u.ID); err != nil {
			return fmt.Errorf("clear follows: %w", err)
		}
		return insertFollows(ctx, tx, u.ID, u.Following())
	})
	if err != nil {
		return err
	}
	u.Version++
	u.UpdatedAt = now
	return nil
}

func insertFollows(ctx context.Context, tx *sql.Tx, followerID string, followees []string) error {
	for _, id := range followees {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_follows (follower_id, followee_id) VALUES ($1, $2)`, followerID, id); err != nil {
			return mapError("insert follow", err)
		}
	}
	return nil
}

// mapError translates constraint violations into repository sentinels.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
