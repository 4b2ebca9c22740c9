package repository

import (
	"context"
	"database/sql"

	"blogapi/internal/models"
)

// PostFilter selects a page of posts. Category matches exactly when set.
type PostFilter struct {
	Category string
	Limit    int
	Offset   int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, title, content, author_id, category, slug, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Author,
		&post.Category,
		&post.Slug,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}

// Create inserts post and fills in the server-side timestamps.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (id, title, content, author_id, category, slug) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.Author, post.Category, post.Slug,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	return translate(err, "insert post")
}

// List returns posts in creation order.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE ($1 = '' OR category = $1) ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, filter.Category, filter.Limit, filter.Offset)
	if err != nil {
		return nil, translate(err, "list posts")
	}
	defer rows.Close()

	posts := make([]models.Post, 0, filter.Limit)
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, translate(err, "scan post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list posts")
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	var post models.Post
	if err := scanPost(r.db.QueryRowContext(ctx, query, id), &post); err != nil {
		return nil, translate(err, "get post")
	}
	return &post, nil
}

// Update persists the mutable fields of post. The author column is never written.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $1, content = $2, category = $3, slug = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5 RETURNING author_id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Content, post.Category, post.Slug, post.ID,
	).Scan(&post.Author, &post.CreatedAt, &post.UpdatedAt)
	return translate(err, "update post")
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete post")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translate(err, "delete post")
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total)
	return total, translate(err, "count posts")
}
