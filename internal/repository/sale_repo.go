package repository

import (
	"context"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleQuery is the resolved form of dto.SaleFilter: the service turns the
// requested calendar day into an absolute [From, To) window.
type SaleQuery struct {
	From   time.Time
	To     time.Time
	Status string // completed | voided | all
	Number string // exact sale number, optional
	Page   int
	Limit  int
}

type SaleRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// FindByIDForUpdateTx locks the sale row for the rest of the transaction.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	MarkVoidedTx(tx *gorm.DB, id uuid.UUID, reason string, at time.Time) (bool, error)
	NextDailySequenceTx(ctx context.Context, tx *gorm.DB, day string) (int, error)
	SumCompletedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Sale, error)
	List(ctx context.Context, q SaleQuery) ([]model.Sale, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Cashier").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) MarkVoidedTx(tx *gorm.DB, id uuid.UUID, reason string, at time.Time) (bool, error) {
	res := tx.Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, model.SaleStatusCompleted).
		Updates(map[string]interface{}{
			"status":      model.SaleStatusVoided,
			"void_reason": reason,
			"voided_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

// NextDailySequenceTx allocates the next suffix for day (YYYYMMDD) with one
// upsert, so concurrent checkouts serialise on the sale_sequences row.
// The first allocation of a day is seeded from the highest suffix already
// stored in sales, which keeps numbering continuous for rows written before
// the counter existed.
func (r *saleRepo) NextDailySequenceTx(ctx context.Context, tx *gorm.DB, day string) (int, error) {
	var next int
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO sale_sequences (day, last_value, updated_at)
		VALUES (?, (
			SELECT COALESCE(MAX(CAST(split_part(sale_number, '-', 2) AS INTEGER)), 0)
			FROM sales WHERE sale_number LIKE ?
		) + 1, NOW())
		ON CONFLICT (day) DO UPDATE
		SET last_value = GREATEST(sale_sequences.last_value, EXCLUDED.last_value - 1) + 1,
		    updated_at = NOW()
		RETURNING last_value`, day, day+"-%").Scan(&next).Error
	return next, err
}

func (r *saleRepo) SumCompletedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.SaleStatusCompleted, from, to).
		Scan(&row).Error
	return row.Total, row.Count, err
}

func (r *saleRepo) ListRecent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Cashier").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) List(ctx context.Context, q SaleQuery) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (q.Page - 1) * q.Limit

	db := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", q.From, q.To)
	if q.Status != "" && q.Status != "all" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Number != "" {
		db = db.Where("sale_number = ?", q.Number)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Items.Product").Preload("Cashier").
		Order("created_at DESC").
		Offset(offset).Limit(q.Limit).
		Find(&sales).Error
	return sales, total, err
}
