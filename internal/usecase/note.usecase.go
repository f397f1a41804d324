package usecase

import (
	"context"
	"fmt"

	"github.com/achieveradarsh/hdnotebackend/internal/domain"
	"github.com/achieveradarsh/hdnotebackend/pkg/id"
)

type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Note, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id, userID string) error
}

type NoteUsecase struct {
	noteRepo NoteRepository
}

func NewNoteUsecase(noteRepo NoteRepository) *NoteUsecase {
	return &NoteUsecase{noteRepo: noteRepo}
}

func (uc *NoteUsecase) CreateNote(ctx context.Context, userID, title, description string) (*domain.Note, error) {
	note := &domain.Note{
		ID:          id.NewULID(),
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := uc.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (uc *NoteUsecase) ListNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	return uc.noteRepo.ListByUser(ctx, userID)
}

func (uc *NoteUsecase) GetNote(ctx context.Context, noteID, userID string) (*domain.Note, error) {
	return uc.noteRepo.GetByID(ctx, noteID, userID)
}

func (uc *NoteUsecase) UpdateNote(ctx context.Context, noteID, userID, title, description string) (*domain.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Description = description
	if err := uc.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (uc *NoteUsecase) DeleteNote(ctx context.Context, noteID, userID string) error {
	return uc.noteRepo.Delete(ctx, noteID, userID)
}
