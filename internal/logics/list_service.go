package logics

import (
	"context"
	"strings"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// ListService provides CRUD over shared checklists. Item order is a
// fractional position key, so reordering never rewrites other items.
type ListService struct {
	lists *repositories.ListRepository
	users UserStore
}

func NewListService(lists *repositories.ListRepository, users UserStore) *ListService {
	return &ListService{lists: lists, users: users}
}

func (ls *ListService) CreateList(ctx context.Context, actorID, title string) (*models.List, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "list title is required", nil)
	}

	listID, err := utils.GenerateUniqueID("LS")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate list id")
	}

	now := time.Now()
	list := &models.List{
		ID:        listID,
		Title:     title,
		OwnerID:   actorID,
		CreatedBy: actorID,
		Items:     []models.ListItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ls.lists.Insert(ctx, list); err != nil {
		return nil, apperrors.Wrap(err, "failed to create list")
	}
	return list, nil
}

func (ls *ListService) GetList(ctx context.Context, actorID, listID string) (*models.List, error) {
	list, err := ls.lists.FindByID(ctx, listID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "list not found", err)
	}

	ids, err := coupleIDs(ctx, ls.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ids, list.OwnerID); err != nil {
		return nil, err
	}
	return list, nil
}

func (ls *ListService) ListLists(ctx context.Context, actorID string) ([]models.List, error) {
	ids, err := coupleIDs(ctx, ls.users, actorID)
	if err != nil {
		return nil, err
	}

	lists, err := ls.lists.FindForCouple(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list lists")
	}
	return lists, nil
}

func (ls *ListService) DeleteList(ctx context.Context, actorID, listID string) error {
	if _, err := ls.GetList(ctx, actorID, listID); err != nil {
		return err
	}
	if err := ls.lists.Delete(ctx, listID); err != nil {
		return apperrors.Wrap(err, "failed to delete list")
	}
	return nil
}

// AddItem appends an item. afterItemID places the new item right after an
// existing one, at the midpoint between it and its successor.
func (ls *ListService) AddItem(ctx context.Context, actorID, listID, text, afterItemID string) (*models.List, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "item text is required", nil)
	}

	list, err := ls.GetList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	itemID, err := utils.GenerateUniqueID("LI")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate item id")
	}

	position, err := positionFor(list, afterItemID)
	if err != nil {
		return nil, err
	}

	list.Items = append(list.Items, models.ListItem{
		ID:       itemID,
		Text:     text,
		Position: position,
		AddedBy:  actorID,
	})

	if err := ls.lists.Save(ctx, list); err != nil {
		return nil, apperrors.Wrap(err, "failed to add item")
	}
	return list, nil
}

// SetItemChecked toggles an item's checked state.
func (ls *ListService) SetItemChecked(ctx context.Context, actorID, listID, itemID string, checked bool) (*models.List, error) {
	list, err := ls.GetList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "item not found", nil)
	}

	if err := ls.lists.Save(ctx, list); err != nil {
		return nil, apperrors.Wrap(err, "failed to update item")
	}
	return list, nil
}

// RemoveItem deletes an item from the list.
func (ls *ListService) RemoveItem(ctx context.Context, actorID, listID, itemID string) (*models.List, error) {
	list, err := ls.GetList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	kept := list.Items[:0:0]
	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			found = true
			continue
		}
		kept = append(kept, list.Items[i])
	}
	if !found {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "item not found", nil)
	}
	list.Items = kept

	if err := ls.lists.Save(ctx, list); err != nil {
		return nil, apperrors.Wrap(err, "failed to remove item")
	}
	return list, nil
}

// positionFor computes the fractional position of a new item: max+1 when
// appending, the midpoint between after and its successor when inserting.
func positionFor(list *models.List, afterItemID string) (decimal.Decimal, error) {
	if afterItemID == "" {
		max := decimal.Zero
		for i := range list.Items {
			if list.Items[i].Position.GreaterThan(max) {
				max = list.Items[i].Position
			}
		}
		return max.Add(decimal.NewFromInt(1)), nil
	}

	var after *models.ListItem
	for i := range list.Items {
		if list.Items[i].ID == afterItemID {
			after = &list.Items[i]
			break
		}
	}
	if after == nil {
		return decimal.Zero, apperrors.NewAppError(apperrors.ErrNotFound, "item to insert after not found", nil)
	}

	// Successor is the item with the smallest position above after's.
	var next *models.ListItem
	for i := range list.Items {
		item := &list.Items[i]
		if !item.Position.GreaterThan(after.Position) {
			continue
		}
		if next == nil || item.Position.LessThan(next.Position) {
			next = item
		}
	}
	if next == nil {
		return after.Position.Add(decimal.NewFromInt(1)), nil
	}
	return after.Position.Add(next.Position).Div(two), nil
}
