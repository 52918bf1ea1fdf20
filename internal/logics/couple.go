package logics

import (
	"context"

	apperrors "duet-server/pkg/errors"
)

// coupleIDs resolves the actor's side of the space: their own id plus the
// partner's when linked.
func coupleIDs(ctx context.Context, users UserStore, actorID string) ([]string, error) {
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}

	ids := []string{actor.ID}
	if actor.HasPartner() {
		ids = append(ids, actor.PartnerUserID)
	}
	return ids, nil
}

// ensureMember verifies ownerID belongs to the actor's couple.
func ensureMember(ids []string, ownerID string) error {
	for _, id := range ids {
		if id == ownerID {
			return nil
		}
	}
	return apperrors.NewAppError(apperrors.ErrUnauthorized, "you do not have access to this resource", nil)
}
