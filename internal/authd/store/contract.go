package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/pactum-io/pactum/internal/model"
	"github.com/pactum-io/pactum/pkg/utils/errors"
)

type contracts struct {
	db *gorm.DB
}

func newContracts(db *gorm.DB) *contracts {
	return &contracts{db}
}

// Create inserts a new contract row.
func (s *contracts) Create(ctx context.Context, contract *model.Contract) error {
	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrInvalidParam.WithMessagef("contract %s already exists", contract.ID)
		}
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Update saves the full contract row.
func (s *contracts) Update(ctx context.Context, contract *model.Contract) error {
	result := s.db.WithContext(ctx).Save(contract)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("contract %s not found", contract.ID)
	}
	return nil
}

// Delete removes the contract row.
func (s *contracts) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contract{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("contract %s not found", id)
	}
	return nil
}

// Get retrieves a contract by ID.
func (s *contracts) Get(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound.WithMessagef("contract %s not found", id)
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &contract, nil
}
