package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskwire.org/internal/auth"
	"taskwire.org/internal/ids"
)

// Users returns the auth.UserStore view of the pool.
func (s *Store) Users() auth.UserStore { return &userStore{db: s.db} }

type userStore struct{ db *sql.DB }

var _ auth.UserStore = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (id, name, email, password_hash)
		values ($1, $2, $3, $4)
		returning created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *userStore) Find(ctx context.Context, id string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, created_at, updated_at
		from users where id=$1
	`, id)
	return scanUser(row)
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, email, password_hash, created_at, updated_at
		from users where email=$1
	`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return u, nil
}
