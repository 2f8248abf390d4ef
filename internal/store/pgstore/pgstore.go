// Package pgstore implements the store collaborators on Postgres.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/stagebook/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Backend = (*Store)(nil)

// mapErr translates driver errors into the store sentinels.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, store.ErrDuplicate)
		case "23503":
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, store.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// loginTaken reports a unique violation on the login index alone.
func loginTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_login_lower"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ===== Identities =====

func (s *Store) CreateUser(ctx context.Context, u store.NewUser) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx, `
        INSERT INTO users (id, login, email, password, name, is_demo)
        VALUES ($1, $2, $3, $4, $2, $5)
    `, id, u.Login, u.Email, string(hash), u.Demo)
	if err != nil {
		if loginTaken(err) {
			return "", fmt.Errorf("create user %s: %w", u.Login, store.ErrLoginTaken)
		}
		return "", mapErr(err, "create user "+u.Login)
	}
	return id, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, p store.UserProfile) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE users SET
            name = COALESCE(NULLIF($2, ''), name),
            first_name = COALESCE(NULLIF($3, ''), first_name),
            last_name = COALESCE(NULLIF($4, ''), last_name),
            role = COALESCE(NULLIF($5, ''), role)
        WHERE id = $1
    `, id, p.DisplayName, p.FirstName, p.LastName, p.Role)
	if err != nil {
		return mapErr(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (store.User, error) {
	var u store.User
	err := s.pool.QueryRow(ctx, `
        SELECT id, login, email, name, first_name, last_name, role, is_demo, created_at
        FROM users WHERE id = $1
    `, id).Scan(&u.ID, &u.Login, &u.Email, &u.DisplayName, &u.FirstName, &u.LastName, &u.Role, &u.Demo, &u.CreatedAt)
	if err != nil {
		return store.User{}, mapErr(err, "get user")
	}
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ===== Content =====

func (s *Store) CreateItem(ctx context.Context, item store.ContentItem) (string, error) {
	return createItem(ctx, s.pool, item)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func createItem(ctx context.Context, q execer, item store.ContentItem) (string, error) {
	id := uuid.NewString()
	status := item.Status
	if status == "" {
		status = "publish"
	}
	_, err := q.Exec(ctx, `
        INSERT INTO content_items (id, type, title, body, status, author_id, is_demo, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
    `, id, item.Type, item.Title, item.Body, status, nullable(item.AuthorID), item.Demo, nullTime(item.CreatedAt))
	if err != nil {
		return "", mapErr(err, "create content item")
	}
	return id, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch store.ContentPatch) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE content_items SET
            title = COALESCE($2::text, title),
            body = COALESCE($3::text, body),
            status = COALESCE($4::text, status),
            updated_at = NOW()
        WHERE id = $1
    `, id, patch.Title, patch.Body, patch.Status)
	if err != nil {
		return mapErr(err, "update content item")
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (store.ContentItem, error) {
	var it store.ContentItem
	var author *string
	err := s.pool.QueryRow(ctx, `
        SELECT id, type, title, body, status, author_id, is_demo, created_at
        FROM content_items WHERE id = $1
    `, id).Scan(&it.ID, &it.Type, &it.Title, &it.Body, &it.Status, &author, &it.Demo, &it.CreatedAt)
	if err != nil {
		return store.ContentItem{}, mapErr(err, "get content item")
	}
	if author != nil {
		it.AuthorID = *author
	}
	return it, nil
}

func (s *Store) GetMeta(ctx context.Context, id, key string) (string, error) {
	var v string
	err := s.pool.QueryRow(ctx, `
        SELECT meta_value FROM content_meta WHERE item_id = $1 AND meta_key = $2
    `, id, key).Scan(&v)
	if err != nil {
		return "", mapErr(err, "get meta "+key)
	}
	return v, nil
}

func (s *Store) SetMeta(ctx context.Context, id, key, value string) error {
	return setMeta(ctx, s.pool, id, key, value)
}

func setMeta(ctx context.Context, q execer, id, key, value string) error {
	_, err := q.Exec(ctx, `
        INSERT INTO content_meta (item_id, meta_key, meta_value)
        VALUES ($1, $2, $3)
        ON CONFLICT (item_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
    `, id, key, value)
	return mapErr(err, "set meta "+key)
}

// ===== Taxonomy =====

func (s *Store) TermExists(ctx context.Context, name, taxonomy string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM terms WHERE taxonomy = $1 AND name = $2)
    `, taxonomy, name).Scan(&exists)
	if err != nil {
		return false, mapErr(err, "term exists")
	}
	return exists, nil
}

func (s *Store) CreateTerm(ctx context.Context, name, taxonomy string, opts store.TermOptions) (store.Term, error) {
	t := store.Term{
		ID:          uuid.NewString(),
		Taxonomy:    taxonomy,
		Name:        name,
		Slug:        opts.Slug,
		Description: opts.Description,
		Demo:        opts.Demo,
	}
	_, err := s.pool.Exec(ctx, `
        INSERT INTO terms (id, taxonomy, name, slug, description, is_demo)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, t.ID, t.Taxonomy, t.Name, t.Slug, t.Description, t.Demo)
	if err != nil {
		return store.Term{}, mapErr(err, "create term "+name)
	}
	return t, nil
}

func (s *Store) FindTermByName(ctx context.Context, name, taxonomy string) (store.Term, error) {
	var t store.Term
	err := s.pool.QueryRow(ctx, `
        SELECT id, taxonomy, name, slug, description, is_demo
        FROM terms WHERE taxonomy = $1 AND name = $2
    `, taxonomy, name).Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Description, &t.Demo)
	if err != nil {
		return store.Term{}, mapErr(err, "find term "+name)
	}
	return t, nil
}

// AssignTerms replaces the item's terms within one taxonomy.
func (s *Store) AssignTerms(ctx context.Context, itemID string, termIDs []string, taxonomy string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            DELETE FROM term_assignments WHERE item_id = $1 AND taxonomy = $2
        `, itemID, taxonomy); err != nil {
			return mapErr(err, "clear terms")
		}
		for _, termID := range termIDs {
			if _, err := tx.Exec(ctx, `
                INSERT INTO term_assignments (item_id, term_id, taxonomy) VALUES ($1, $2, $3)
            `, itemID, termID, taxonomy); err != nil {
				return mapErr(err, "assign term")
			}
		}
		return nil
	})
}
