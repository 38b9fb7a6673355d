package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

// table and column are always package constants, never request input.

func dailyTotalsQuery(table, column string) string {
	return fmt.Sprintf(`SELECT date, COALESCE(SUM(%s), 0) AS qty FROM %s WHERE user_id = $1 AND date >= $2 AND date <= $3 GROUP BY date ORDER BY date`, column, table)
}

func ownerTotalQuery(table, column string) string {
	return fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE user_id = $1`, column, table)
}

func dailyTotals(ctx context.Context, db sqlx.QueryerContext, table, column string, ownerID int64, from, to models.Date) ([]models.DailyTotal, error) {
	totals := []models.DailyTotal{}
	if err := sqlx.SelectContext(ctx, db, &totals, dailyTotalsQuery(table, column), ownerID, from, to); err != nil {
		return nil, fmt.Errorf("daily totals from %s: %w", table, err)
	}
	return totals, nil
}

func ownerTotal(ctx context.Context, db sqlx.QueryerContext, table, column string, ownerID int64) (float64, error) {
	var total float64
	if err := sqlx.GetContext(ctx, db, &total, ownerTotalQuery(table, column), ownerID); err != nil {
		return 0, fmt.Errorf("total from %s: %w", table, err)
	}
	return total, nil
}
