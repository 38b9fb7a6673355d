package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

const (
	energyTable  = "energy_logs"
	energyColumn = "qty"

	insertEnergyLogQuery       = `INSERT INTO energy_logs (user_id, qty, unit, date) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	listEnergyLogsQuery        = `SELECT id, user_id, qty, unit, date, created_at FROM energy_logs WHERE user_id = $1 ORDER BY date DESC, id DESC`
	listEnergyLogsBetweenQuery = `SELECT id, user_id, qty, unit, date, created_at FROM energy_logs WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC, id DESC`
	deleteEnergyLogQuery       = `DELETE FROM energy_logs WHERE id = $1 AND user_id = $2`
)

type EnergyLogStore struct {
	DB *sqlx.DB
}

func (s *EnergyLogStore) Create(ctx context.Context, ownerID int64, entry models.EnergyLog) (models.EnergyLog, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.EnergyLog{}, fmt.Errorf("begin energy log insert: %w", err)
	}
	defer rollback(tx)

	entry.UserID = ownerID
	err = tx.QueryRowxContext(ctx, insertEnergyLogQuery,
		ownerID, entry.Qty, entry.Unit, entry.Date,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return models.EnergyLog{}, fmt.Errorf("insert energy log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.EnergyLog{}, fmt.Errorf("commit energy log insert: %w", err)
	}
	return entry, nil
}

func (s *EnergyLogStore) List(ctx context.Context, ownerID int64) ([]models.EnergyLog, error) {
	logs := []models.EnergyLog{}
	if err := s.DB.SelectContext(ctx, &logs, listEnergyLogsQuery, ownerID); err != nil {
		return nil, fmt.Errorf("list energy logs: %w", err)
	}
	return logs, nil
}

func (s *EnergyLogStore) ListBetween(ctx context.Context, ownerID int64, from, to models.Date) ([]models.EnergyLog, error) {
	logs := []models.EnergyLog{}
	if err := s.DB.SelectContext(ctx, &logs, listEnergyLogsBetweenQuery, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("list energy logs between %s and %s: %w", from, to, err)
	}
	return logs, nil
}

func (s *EnergyLogStore) Delete(ctx context.Context, ownerID, id int64) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin energy log delete: %w", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, deleteEnergyLogQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete energy log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete energy log: %w", err)
	}
	if n == 0 {
		return ErrLogNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit energy log delete: %w", err)
	}
	return nil
}

// DailyTotals sums kWh per day for ownerID between from and to inclusive.
func (s *EnergyLogStore) DailyTotals(ctx context.Context, ownerID int64, from, to models.Date) ([]models.DailyTotal, error) {
	return dailyTotals(ctx, s.DB, energyTable, energyColumn, ownerID, from, to)
}

func (s *EnergyLogStore) Total(ctx context.Context, ownerID int64) (float64, error) {
	return ownerTotal(ctx, s.DB, energyTable, energyColumn, ownerID)
}
