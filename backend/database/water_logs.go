package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

const (
	waterTable  = "water_logs"
	waterColumn = "qty_litres"

	insertWaterLogQuery       = `INSERT INTO water_logs (user_id, qty, qty_litres, unit, category, date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	listWaterLogsQuery        = `SELECT id, user_id, qty, qty_litres, unit, category, date, created_at FROM water_logs WHERE user_id = $1 ORDER BY date DESC, id DESC`
	listWaterLogsBetweenQuery = `SELECT id, user_id, qty, qty_litres, unit, category, date, created_at FROM water_logs WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC, id DESC`
	deleteWaterLogQuery       = `DELETE FROM water_logs WHERE id = $1 AND user_id = $2`
	waterCategoryTotalsQuery  = `SELECT category, COALESCE(SUM(qty_litres), 0) AS qty FROM water_logs WHERE user_id = $1 AND date >= $2 AND date <= $3 GROUP BY category`
)

// WaterLogStore reads and writes water_logs. Every method takes the owner's id and
// every statement filters on it.
type WaterLogStore struct {
	DB *sqlx.DB
}

// Create persists entry for ownerID inside a transaction and returns it with its id.
func (s *WaterLogStore) Create(ctx context.Context, ownerID int64, entry models.WaterLog) (models.WaterLog, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.WaterLog{}, fmt.Errorf("begin water log insert: %w", err)
	}
	defer rollback(tx)

	entry.UserID = ownerID
	err = tx.QueryRowxContext(ctx, insertWaterLogQuery,
		ownerID, entry.Qty, entry.QtyLitres, entry.Unit, entry.Category, entry.Date,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return models.WaterLog{}, fmt.Errorf("insert water log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.WaterLog{}, fmt.Errorf("commit water log insert: %w", err)
	}
	return entry, nil
}

// List returns every entry of ownerID, newest date first.
func (s *WaterLogStore) List(ctx context.Context, ownerID int64) ([]models.WaterLog, error) {
	logs := []models.WaterLog{}
	if err := s.DB.SelectContext(ctx, &logs, listWaterLogsQuery, ownerID); err != nil {
		return nil, fmt.Errorf("list water logs: %w", err)
	}
	return logs, nil
}

func (s *WaterLogStore) ListBetween(ctx context.Context, ownerID int64, from, to models.Date) ([]models.WaterLog, error) {
	logs := []models.WaterLog{}
	if err := s.DB.SelectContext(ctx, &logs, listWaterLogsBetweenQuery, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("list water logs between %s and %s: %w", from, to, err)
	}
	return logs, nil
}

// Delete removes entry id only if ownerID owns it. A missing entry and somebody
// else's entry both give ErrLogNotFound.
func (s *WaterLogStore) Delete(ctx context.Context, ownerID, id int64) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin water log delete: %w", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, deleteWaterLogQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete water log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete water log: %w", err)
	}
	if n == 0 {
		return ErrLogNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit water log delete: %w", err)
	}
	return nil
}

// DailyTotals sums litres per day for ownerID between from and to inclusive.
func (s *WaterLogStore) DailyTotals(ctx context.Context, ownerID int64, from, to models.Date) ([]models.DailyTotal, error) {
	return dailyTotals(ctx, s.DB, waterTable, waterColumn, ownerID, from, to)
}

func (s *WaterLogStore) CategoryTotals(ctx context.Context, ownerID int64, from, to models.Date) ([]models.CategoryTotal, error) {
	totals := []models.CategoryTotal{}
	if err := s.DB.SelectContext(ctx, &totals, waterCategoryTotalsQuery, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("water category totals: %w", err)
	}
	return totals, nil
}

// Total is the all-time litres of ownerID.
func (s *WaterLogStore) Total(ctx context.Context, ownerID int64) (float64, error) {
	return ownerTotal(ctx, s.DB, waterTable, waterColumn, ownerID)
}
