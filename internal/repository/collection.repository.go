package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/trade-ledger/internal/model"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
)

type CollectionRepository struct {
	*sqldb.DB
}

func NewCollectionRepository(db *sqldb.DB) *CollectionRepository {
	return &CollectionRepository{
		db,
	}
}

func (r *CollectionRepository) Create(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	entity := toCollectionEntity(collection)
	entity.ID = 0

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCollectionModel(entity), nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*model.Collection, error) {
	var entity CollectionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return toCollectionModel(&entity), nil
}

func (r *CollectionRepository) List(ctx context.Context, filter model.RecordFilter) ([]*model.Collection, error) {
	var entities []*CollectionEntity
	q := applyFilter(r.Read(ctx).WithContext(ctx), "customer_id", "collection_date", filter)
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	collections := make([]*model.Collection, len(entities))
	for i, e := range entities {
		collections[i] = toCollectionModel(e)
	}
	return collections, nil
}

func (r *CollectionRepository) Update(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CollectionEntity{}).
		Where("id = ?", collection.ID).
		Updates(map[string]interface{}{
			"customer_id":     collection.CustomerID,
			"amount":          collection.Amount,
			"collection_date": collection.CollectionDate.Time,
			"notes":           collection.Notes,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCollectionNotFound
	}
	return r.GetByID(ctx, collection.ID)
}

func (r *CollectionRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&CollectionEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (r *CollectionRepository) TotalsByOwner(ctx context.Context) (map[int64]decimal.Decimal, error) {
	return sumByOwner(ctx, r.DB, CollectionEntity{}.TableName(), "customer_id")
}

func (r *CollectionRepository) TotalForOwner(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	return sumForOwner(ctx, r.DB, CollectionEntity{}.TableName(), "customer_id", customerID)
}

func (r *CollectionRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, CollectionEntity{}.TableName())
}
