package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"magazyn/model"
)

func GetAllCategories(db *sqlx.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.Select(&categories, `SELECT id, name, description FROM categories`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select categories")
	}
	return categories, nil
}

func GetCategory(db *sqlx.DB, id int64) (*model.Category, error) {
	var c model.Category
	err := db.Get(&c, `SELECT id, name, description FROM categories WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get category %d", id)
	}
	return &c, nil
}

func CreateCategory(db *sqlx.DB, c *model.Category) (*model.Category, error) {
	res, err := db.Exec(`INSERT INTO categories (name, description) VALUES (?, ?)`,
		c.Name, c.Description)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert category")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inserted category id")
	}
	return GetCategory(db, id)
}

// DeleteCategory removes the category. The store blocks the delete while
// any product still references it; that surfaces as
// model.ErrReferentialIntegrity.
func DeleteCategory(db *sqlx.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrReferentialIntegrity
		}
		return errors.Wrapf(err, "failed to delete category %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func CountCategories(db *sqlx.DB) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, errors.Wrap(err, "failed to count categories")
	}
	return n, nil
}
