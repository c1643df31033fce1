package inmem

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

func (s *Store) GetAccount(_ context.Context, id primitive.ObjectID) (*entity.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.accounts, id, cloneAccount)
}

func (s *Store) GetAccountByUser(_ context.Context, userID primitive.ObjectID) (*entity.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, a := range s.accounts {
		if a.User == userID {
			c := *a
			return &c, nil
		}
	}
	return nil, store.ErrNoDocument
}

func (s *Store) GetAccounts(_ context.Context, ids []primitive.ObjectID) ([]entity.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.accounts, ids, cloneAccount), nil
}

func (s *Store) CreateAccount(_ context.Context, account *entity.Account) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&account.ID)
	c := *account
	s.accounts[account.ID] = &c
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account *entity.Account) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.accounts, account.ID, *account, cloneAccount)
}

func (s *Store) ListPendingAccounts(_ context.Context) ([]entity.Account, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]entity.Account, 0)
	for _, a := range s.accounts {
		if !a.IsApproved {
			out = append(out, *a)
		}
	}
	return out, nil
}
