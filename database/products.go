package database

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"magazyn/model"
)

func GetAllProducts(db *sqlx.DB) ([]model.ProductView, error) {
	var products []model.ProductView
	err := db.Select(&products, `
		SELECT p.id, p.name, p.category_id, p.unit_price, p.quantity, c.name AS category_name
		FROM products p
		JOIN categories c ON c.id = p.category_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select products")
	}
	for i := range products {
		products[i].StockValue = float64(products[i].Quantity) * products[i].UnitPrice
	}
	return products, nil
}

func GetProduct(db *sqlx.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := db.Get(&p, `SELECT id, name, category_id, unit_price, quantity FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get product %d", id)
	}
	return &p, nil
}

func CreateProduct(db *sqlx.DB, p *model.Product) (*model.Product, error) {
	res, err := db.Exec(`INSERT INTO products (name, category_id, unit_price, quantity) VALUES (?, ?, ?, ?)`,
		p.Name, p.CategoryID, p.UnitPrice, p.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to insert product")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inserted product id")
	}
	return GetProduct(db, id)
}

// ProductUpdate carries the optional fields of a partial update. Nil
// fields are left untouched.
type ProductUpdate struct {
	Name       *string  `json:"name"`
	CategoryID *int64   `json:"categoryId"`
	UnitPrice  *float64 `json:"unitPrice"`
	Quantity   *int     `json:"quantity"`
}

func UpdateProduct(db *sqlx.DB, id int64, upd ProductUpdate) (*model.Product, error) {
	sets := []string{}
	args := []interface{}{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *upd.CategoryID)
	}
	if upd.UnitPrice != nil {
		sets = append(sets, "unit_price = ?")
		args = append(args, *upd.UnitPrice)
	}
	if upd.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *upd.Quantity)
	}
	if len(sets) == 0 {
		return GetProduct(db, id)
	}
	args = append(args, id)

	res, err := db.Exec(`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to update product %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return nil, model.ErrNotFound
	}
	return GetProduct(db, id)
}

func DeleteProduct(db *sqlx.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete product %d", id)
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

// DecrementStockInTx subtracts qty from on-hand stock in one conditional
// statement: the WHERE clause guarantees quantity never goes negative and
// closes the read-then-write window between concurrent sessions. When the
// statement matches no row the product is re-read to tell a missing
// product apart from insufficient stock.
func DecrementStockInTx(tx *sqlx.Tx, productID int64, qty int) error {
	res, err := tx.Exec(`UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		qty, productID, qty)
	if err != nil {
		return errors.Wrapf(err, "failed to decrement stock for product %d", productID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n > 0 {
		return nil
	}

	var remaining int
	err = tx.Get(&remaining, `SELECT quantity FROM products WHERE id = ?`, productID)
	if err == sql.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to re-read stock for product %d", productID)
	}
	return &model.InsufficientStockError{ProductID: productID, Requested: qty, Remaining: remaining}
}

func GetLowStockProducts(db *sqlx.DB, threshold int) ([]model.ProductView, error) {
	var products []model.ProductView
	err := db.Select(&products, `
		SELECT p.id, p.name, p.category_id, p.unit_price, p.quantity, c.name AS category_name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.quantity <= ?
		ORDER BY p.quantity ASC`, threshold)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select low-stock products")
	}
	for i := range products {
		products[i].StockValue = float64(products[i].Quantity) * products[i].UnitPrice
	}
	return products, nil
}

// RestockTo overwrites stock with the restock level, but only while the
// quantity is still at or below the threshold. A concurrent edit that
// lifts the quantity above the threshold first makes this a no-op, which
// the caller reports as a skip. A checkout decrement landing just before
// the overwrite is still absorbed; the condition narrows that race, it
// does not eliminate it.
func RestockTo(db *sqlx.DB, productID int64, level, threshold int) (bool, error) {
	res, err := db.Exec(`UPDATE products SET quantity = ? WHERE id = ? AND quantity <= ?`,
		level, productID, threshold)
	if err != nil {
		return false, errors.Wrapf(err, "failed to restock product %d", productID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}
