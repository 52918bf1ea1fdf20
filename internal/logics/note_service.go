package logics

import (
	"context"
	"strings"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"
)

// NoteService provides CRUD over shared notes.
type NoteService struct {
	notes *repositories.NoteRepository
	users UserStore
}

func NewNoteService(notes *repositories.NoteRepository, users UserStore) *NoteService {
	return &NoteService{notes: notes, users: users}
}

// CreateNoteInput is the payload for creating a note.
type CreateNoteInput struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
	Pinned   bool   `json:"pinned"`
}

func (ns *NoteService) CreateNote(ctx context.Context, actorID string, input CreateNoteInput) (*models.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "note title is required", nil)
	}

	noteID, err := utils.GenerateUniqueID("NT")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate note id")
	}

	now := time.Now()
	note := &models.Note{
		ID:        noteID,
		Title:     input.Title,
		Contents:  input.Contents,
		OwnerID:   actorID,
		CreatedBy: actorID,
		Pinned:    input.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ns.notes.Insert(ctx, note); err != nil {
		return nil, apperrors.Wrap(err, "failed to create note")
	}
	return note, nil
}

func (ns *NoteService) GetNote(ctx context.Context, actorID, noteID string) (*models.Note, error) {
	note, err := ns.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "note not found", err)
	}

	ids, err := coupleIDs(ctx, ns.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ids, note.OwnerID); err != nil {
		return nil, err
	}
	return note, nil
}

func (ns *NoteService) ListNotes(ctx context.Context, actorID string) ([]models.Note, error) {
	ids, err := coupleIDs(ctx, ns.users, actorID)
	if err != nil {
		return nil, err
	}

	notes, err := ns.notes.FindForCouple(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}
	return notes, nil
}

func (ns *NoteService) UpdateNote(ctx context.Context, actorID, noteID string, updates models.NoteUpdate) (*models.Note, error) {
	note, err := ns.GetNote(ctx, actorID, noteID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil && *updates.Title != "" {
		note.Title = *updates.Title
	}
	if updates.Contents != nil {
		note.Contents = *updates.Contents
	}
	if updates.Pinned != nil {
		note.Pinned = *updates.Pinned
	}

	if err := ns.notes.Save(ctx, note); err != nil {
		return nil, apperrors.Wrap(err, "failed to update note")
	}
	return note, nil
}

func (ns *NoteService) DeleteNote(ctx context.Context, actorID, noteID string) error {
	if _, err := ns.GetNote(ctx, actorID, noteID); err != nil {
		return err
	}
	if err := ns.notes.Delete(ctx, noteID); err != nil {
		return apperrors.Wrap(err, "failed to delete note")
	}
	return nil
}
