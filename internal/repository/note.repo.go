package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

type NoteRepository struct {
	db *pgxpool.Pool
}

func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notes (id, user_id, title, description)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		n.ID, n.UserID, n.Title, n.Description,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM notes WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n := new(domain.Note)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetByID is owner-scoped: a note belonging to another user reads as
// not found rather than forbidden.
func (r *NoteRepository) GetByID(ctx context.Context, id, userID string) (*domain.Note, error) {
	n := new(domain.Note)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, description, created_at, updated_at
		FROM notes WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *domain.Note) error {
	err := r.db.QueryRow(ctx, `
		UPDATE notes SET title = $3, description = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`,
		n.ID, n.UserID, n.Title, n.Description,
	).Scan(&n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.ErrNoteNotFound
		}
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNoteNotFound
	}
	return nil
}
