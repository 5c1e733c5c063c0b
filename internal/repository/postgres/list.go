package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wordflip/internal/domain"
)

// ListRepo implements repository.ListRepository
type ListRepo struct {
	db *sql.DB
}

// NewListRepo creates a new list repository
func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{db: db}
}

// CreateList stores a list and its words in one transaction
func (r *ListRepo) CreateList(ctx context.Context, list *domain.List) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lists (id, owner_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`, list.ID, nullString(list.Owner), list.Title, list.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}

	for i, w := range list.Words {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO list_words (list_id, position, term, meaning, favorite)
			VALUES ($1, $2, $3, $4, $5)
		`, list.ID, i, w.Term, w.Meaning, w.Favorite)
		if err != nil {
			return fmt.Errorf("insert word %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetLists returns lists newest first. A nil ownerID returns every list.
func (r *ListRepo) GetLists(ctx context.Context, ownerID *string) ([]domain.List, error) {
	query := `
		SELECT l.id, l.owner_id, l.title, l.created_at, w.term, w.meaning, w.favorite
		FROM lists l
		JOIN list_words w ON w.list_id = l.id
		WHERE ($1::uuid IS NULL OR l.owner_id = $1)
		ORDER BY l.created_at DESC, l.id, w.position
	`

	rows, err := r.db.QueryContext(ctx, query, nullString(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []domain.List
	for rows.Next() {
		var (
			id, title string
			owner     sql.NullString
			list      domain.List
			w         domain.Word
		)
		if err := rows.Scan(&id, &owner, &title, &list.CreatedAt, &w.Term, &w.Meaning, &w.Favorite); err != nil {
			return nil, err
		}

		// rows of one list are adjacent
		if n := len(lists); n > 0 && lists[n-1].ID == id {
			lists[n-1].Words = append(lists[n-1].Words, w)
			continue
		}

		list.ID = id
		list.Title = title
		if owner.Valid {
			o := owner.String
			list.Owner = &o
		}
		list.Words = []domain.Word{w}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// ToggleFavorite flips the favorite flag of the word at index
func (r *ListRepo) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM lists WHERE id = $1)`, listID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrNotFound
	}

	var favorite bool
	query := `
		UPDATE list_words
		SET favorite = NOT favorite
		WHERE list_id = $1 AND position = $2
		RETURNING favorite
	`
	err = r.db.QueryRowContext(ctx, query, listID, index).Scan(&favorite)
	if err == sql.ErrNoRows {
		return false, domain.ErrInvalidIndex
	}
	if err != nil {
		return false, err
	}

	return favorite, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
