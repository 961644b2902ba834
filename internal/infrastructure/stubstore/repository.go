package stubstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
)

// Repository persists blogs in a local sqlite database. Passwords are stored
// as plain text on purpose: this component stands in for the remote store,
// whose contract the portal treats as plaintext-comparing anyway.
type Repository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewRepository wires a sql.DB implementation.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Migrate creates the blogs table when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS blogs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        author TEXT NOT NULL,
        content TEXT NOT NULL,
        tags TEXT NOT NULL DEFAULT '[]',
        password TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL
    )`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create blogs table: %w", err)
	}
	return nil
}

// Insert stores a new blog and returns it with the assigned id and creation
// timestamp.
func (r *Repository) Insert(ctx context.Context, blog domain.Blog) (domain.Blog, error) {
	tags, err := json.Marshal(blog.Tags)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("marshal tags: %w", err)
	}

	createdAt := time.Now().UTC()
	query, args, err := r.sb.Insert("blogs").
		Columns("title", "author", "content", "tags", "password", "created_at").
		Values(blog.Title, blog.Author, blog.Content, string(tags), storedPassword(blog), createdAt).
		ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("insert blog: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("last insert id: %w", err)
	}

	blog.ID = strconv.FormatInt(id, 10)
	blog.CreatedAt = createdAt
	return blog, nil
}

// GetByID loads one blog, password included.
func (r *Repository) GetByID(ctx context.Context, id string) (domain.Blog, error) {
	query, args, err := r.sb.
		Select("id", "title", "author", "content", "tags", "password", "created_at").
		From("blogs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build select: %w", err)
	}

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Blog{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Blog{}, fmt.Errorf("select blog %s: %w", id, err)
	}
	return blog, nil
}

// List returns all blogs, newest first, passwords included. Callers decide
// what to strip before responding.
func (r *Repository) List(ctx context.Context) ([]domain.Blog, error) {
	query, args, err := r.sb.
		Select("id", "title", "author", "content", "tags", "password", "created_at").
		From("blogs").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]domain.Blog, 0, 16)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return blogs, nil
}

// Update replaces the editable fields; the creation timestamp is untouched.
func (r *Repository) Update(ctx context.Context, id string, blog domain.Blog) (domain.Blog, error) {
	tags, err := json.Marshal(blog.Tags)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("marshal tags: %w", err)
	}

	query, args, err := r.sb.Update("blogs").
		Set("title", blog.Title).
		Set("author", blog.Author).
		Set("content", blog.Content).
		Set("tags", string(tags)).
		Set("password", storedPassword(blog)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Blog{}, fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("update blog %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.Blog{}, ports.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a blog. The password check belongs to the handler.
func (r *Repository) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("blogs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (domain.Blog, error) {
	var (
		id       int64
		blog     domain.Blog
		tags     string
		password string
	)

	if err := row.Scan(&id, &blog.Title, &blog.Author, &blog.Content, &tags, &password, &blog.CreatedAt); err != nil {
		return domain.Blog{}, err
	}

	blog.ID = strconv.FormatInt(id, 10)
	if err := json.Unmarshal([]byte(tags), &blog.Tags); err != nil {
		return domain.Blog{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if password != "" {
		blog.Password = &password
	}
	return blog, nil
}

func storedPassword(blog domain.Blog) string {
	if blog.Password == nil {
		return ""
	}
	return *blog.Password
}
