package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskwire.org/internal/ids"
	"taskwire.org/internal/todo"
)

// Todos returns the todo.Store view of the pool.
func (s *Store) Todos() todo.Store { return &todoStore{db: s.db} }

type todoStore struct{ db *sql.DB }

var _ todo.Store = (*todoStore)(nil)

func (s *todoStore) Create(ctx context.Context, t *todo.Todo) error {
	if t.ID == "" {
		t.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx, `
		insert into todos (id, title, description, completed, user_id)
		values ($1, $2, $3, $4, $5)
		returning created_at, updated_at
	`, t.ID, t.Title, t.Description, t.Completed, t.UserID)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *todoStore) Find(ctx context.Context, id string) (todo.Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, title, description, completed, user_id, created_at, updated_at
		from todos where id=$1
	`, id)
	var t todo.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, todo.ErrNotFound
	}
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// ListByOwner pages through the owner's todos most-recent-first. The search
// filter is scoped inside the owner predicate so it can never widen the
// result to another user's rows.
func (s *todoStore) ListByOwner(ctx context.Context, ownerID, search string, page, perPage int) ([]todo.Todo, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = todo.PerPage
	}
	pattern := "%" + search + "%"

	var total int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from todos
		where user_id=$1 and ($2='' or title ilike $3 or description ilike $3)
	`, ownerID, search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		select id, title, description, completed, user_id, created_at, updated_at
		from todos
		where user_id=$1 and ($2='' or title ilike $3 or description ilike $3)
		order by created_at desc, id desc
		limit $4 offset $5
	`, ownerID, search, pattern, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []todo.Todo
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (s *todoStore) Update(ctx context.Context, t *todo.Todo) error {
	row := s.db.QueryRowContext(ctx, `
		update todos
		set title=$2, description=$3, completed=$4, updated_at=now()
		where id=$1
		returning updated_at
	`, t.ID, t.Title, t.Description, t.Completed)
	err := row.Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.ErrNotFound
	}
	return err
}

func (s *todoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from todos where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return todo.ErrNotFound
	}
	return nil
}
