package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"magazyn/model"
)

func InsertSaleRecordInTx(tx *sqlx.Tx, rec *model.SaleRecord) error {
	_, err := tx.Exec(`INSERT INTO sale_records (id, product_id, quantity, total_amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.ProductID, rec.Quantity, rec.TotalAmount, rec.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to insert sale record for product %d", rec.ProductID)
	}
	return nil
}

func GetAllSaleRecords(db *sqlx.DB) ([]model.SaleRecord, error) {
	var records []model.SaleRecord
	err := db.Select(&records, `
		SELECT id, product_id, quantity, total_amount, created_at
		FROM sale_records
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select sale records")
	}
	return records, nil
}
