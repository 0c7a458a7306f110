package bounty

import (
	"context"
	"errors"
	"time"

	"github.com/algoease/escrow/src/utils/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres-backed Store on gorm
type DbStore struct {
	db *gorm.DB
}

func NewDbStore(db *gorm.DB) (self *DbStore) {
	self = new(DbStore)
	self.db = db
	return
}

func (self *DbStore) Get(ctx context.Context, id string) (bounty *model.Bounty, err error) {
	bounty = new(model.Bounty)
	err = self.db.WithContext(ctx).
		Table(model.TableBounty).
		Where("id = ?", id).
		First(bounty).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return
}

func (self *DbStore) List(ctx context.Context, filter *Filter) (out []*model.Bounty, err error) {
	query := self.db.WithContext(ctx).
		Table(model.TableBounty).
		Order("created_at DESC")

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Address != "" {
		query = query.Where("client_address = ? OR verifier_address = ? OR freelancer_address = ?",
			filter.Address, filter.Address, filter.Address)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err = query.Find(&out).Error
	return
}

func (self *DbStore) Create(ctx context.Context, bounty *model.Bounty, deposit *model.FundTransfer) error {
	return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		err = tx.Table(model.TableBounty).Create(bounty).Error
		if err != nil {
			return
		}
		if deposit != nil {
			err = tx.Table(model.TableFundTransfer).Create(deposit).Error
		}
		return
	})
}

func (self *DbStore) Update(ctx context.Context, bounty *model.Bounty, transfer *model.FundTransfer) error {
	return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		result := tx.Table(model.TableBounty).
			Where("id = ? AND version = ?", bounty.ID, bounty.Version).
			Updates(map[string]interface{}{
				"status":             bounty.Status,
				"freelancer_address": bounty.FreelancerAddress,
				"version":            bounty.Version + 1,
				"updated_at":         bounty.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the row is gone or someone got there first
			return ErrConcurrentModification
		}

		if transfer != nil {
			err = tx.Table(model.TableFundTransfer).Create(transfer).Error
			if err != nil {
				return
			}
		}

		bounty.Version += 1
		return nil
	})
}

func (self *DbStore) TakeExpired(ctx context.Context, now int64, limit int) (out []*model.Bounty, err error) {
	// SKIP LOCKED so concurrent sweeper replicas never take the same batch
	err = self.db.WithContext(ctx).
		Table(model.TableBounty).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status IN ?", []model.BountyStatus{model.BountyStatusOpen, model.BountyStatusAccepted}).
		Where("deadline <= ?", now).
		Order("deadline ASC").
		Limit(limit).
		Find(&out).
		Error
	return
}

func (self *DbStore) GetTransfers(ctx context.Context, bountyID string) (out []*model.FundTransfer, err error) {
	err = self.db.WithContext(ctx).
		Table(model.TableFundTransfer).
		Where("bounty_id = ?", bountyID).
		Order("created_at ASC").
		Find(&out).
		Error
	return
}

func (self *DbStore) ListUnsettledTransfers(ctx context.Context, maxAttempts, limit int) (out []*model.FundTransfer, err error) {
	query := self.db.
		Table(model.TableFundTransfer).
		Where("state <> ?", model.TransferStateConfirmed)

	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	err = query.Order("updated_at ASC").Find(&out).Error
	return
}

func (self *DbStore) SetTransferState(ctx context.Context, id string, state model.TransferState, attemptErr error) error {
	updates := map[string]interface{}{
		"state":      state,
		"attempts":   gorm.Expr("attempts + 1"),
		"updated_at": time.Now().UTC(),
	}
	if attemptErr != nil {
		updates["last_error"] = attemptErr.Error()
	}

	result := self.db.WithContext(ctx).
		Table(model.TableFundTransfer).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (self *DbStore) SaveEvents(ctx context.Context, events []*model.BountyEvent) error {
	if len(events) == 0 {
		return nil
	}
	return self.db.WithContext(ctx).
		Table(model.TableBountyEvent).
		Create(events).
		Error
}
