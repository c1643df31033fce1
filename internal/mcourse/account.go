package mcourse

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/log"
)

func (s *Service) GetPendingAccounts(ctx context.Context) ([]AccountView, error) {
	accounts, err := s.store.ListPendingAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending accounts: %w", err)
	}

	userIDs := make([]primitive.ObjectID, len(accounts))
	for i, a := range accounts {
		userIDs[i] = a.User
	}
	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = AccountView{
			ID:         a.ID,
			Email:      a.Email,
			Role:       a.Role,
			IsApproved: a.IsApproved,
			User:       userRef(users, &a.User),
		}
	}
	return views, nil
}

// ApproveAccounts approves every listed account and enables its identity
// provider user when one was provisioned.
func (s *Service) ApproveAccounts(ctx context.Context, ids []string) error {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, hex := range ids {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return errs.BadRequest("Invalid account id %s", hex)
		}
		oids = append(oids, id)
	}

	accounts, err := s.store.GetAccounts(ctx, oids)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	if len(accounts) != len(oids) {
		return errs.NotFound("Account not found")
	}

	for i := range accounts {
		a := &accounts[i]
		a.IsApproved = true
		if err := s.store.UpdateAccount(ctx, a); err != nil {
			return fmt.Errorf("approving account %s: %w", a.ID.Hex(), err)
		}
		if a.KeycloakID == "" {
			continue
		}
		if err := s.provisioner.EnableAccount(ctx, a.KeycloakID); err != nil {
			log.Logger.Warn("identity provider enable failed",
				zap.String("accountID", a.ID.Hex()),
				zap.Error(err),
			)
		}
	}
	return nil
}
