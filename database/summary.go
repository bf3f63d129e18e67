package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"magazyn/model"
)

func GetDashboardSummary(db *sqlx.DB) (*model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := db.Get(&s, `
		SELECT
			COALESCE(SUM(quantity), 0)              AS total_units,
			COALESCE(SUM(quantity * unit_price), 0) AS total_value
		FROM products`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate product totals")
	}

	count, err := CountCategories(db)
	if err != nil {
		return nil, err
	}
	s.CategoryCount = count
	return &s, nil
}
