package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) GetAccount(ctx context.Context, id primitive.ObjectID) (*entity.Account, error) {
	var account entity.Account
	if err := findOne(ctx, s.Collections.Accounts, bson.M{"_id": id}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) GetAccountByUser(ctx context.Context, userID primitive.ObjectID) (*entity.Account, error) {
	var account entity.Account
	if err := findOne(ctx, s.Collections.Accounts, bson.M{"user": userID}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) GetAccounts(ctx context.Context, ids []primitive.ObjectID) ([]entity.Account, error) {
	accounts, err := findAll[entity.Account](ctx, s.Collections.Accounts, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, accounts, func(a *entity.Account) primitive.ObjectID { return a.ID }), nil
}

func (s *Store) CreateAccount(ctx context.Context, account *entity.Account) error {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	if _, err := s.Collections.Accounts.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, account *entity.Account) error {
	return replaceByID(ctx, s.Collections.Accounts, account.ID, account)
}

func (s *Store) ListPendingAccounts(ctx context.Context) ([]entity.Account, error) {
	return findAll[entity.Account](ctx, s.Collections.Accounts, bson.M{"isApproved": false})
}
