package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"magazyn/cart"
	"magazyn/database"
	"magazyn/model"
)

// LineOutcome reports what happened to one cart line during checkout.
type LineOutcome struct {
	Line      model.CartLine `json:"line"`
	Committed bool           `json:"committed"`
	Reason    string         `json:"reason,omitempty"`
}

// Result is the per-line report of a checkout attempt. Cleared is true
// only when every line of the checkout snapshot committed; failed lines
// stay in the cart so the session can adjust and retry.
type Result struct {
	CartID    uuid.UUID     `json:"cartId"`
	Outcomes  []LineOutcome `json:"outcomes"`
	Committed int           `json:"committed"`
	Failed    int           `json:"failed"`
	Cleared   bool          `json:"cleared"`
}

// Confirm converts the cart's lines into persisted stock decrements and
// sale records.
//
// Policy: partial failure with per-line reporting. Lines are processed
// sequentially and independently, each in its own transaction pairing
// the conditional stock decrement with its sale record. A line that
// fails validation at the store (insufficient stock, product gone) is
// reported and left in the cart; later lines still run. An unexpected
// store error aborts the remaining lines, which also stay in the cart.
// Nothing compensates committed lines: there is no cross-line
// transaction, matching the line independence of the original workflow.
//
// Only the lines of the snapshot taken at entry are checked out, and
// only the committed ones are removed afterwards. A line another tab
// adds to the same cart while the checkout runs is neither sold nor
// discarded; it waits for the next checkout.
func Confirm(db *sqlx.DB, c *cart.Cart) (*Result, error) {
	lines := c.Lines()
	result := &Result{CartID: c.ID(), Outcomes: make([]LineOutcome, 0, len(lines))}

	committed := make(map[uuid.UUID]bool, len(lines))
	var abortErr error

	for i, line := range lines {
		if abortErr != nil {
			continue
		}

		if err := confirmLine(db, line); err != nil {
			result.Failed++
			result.Outcomes = append(result.Outcomes, LineOutcome{
				Line:   line,
				Reason: err.Error(),
			})

			if isLineFailure(err) {
				log.WithFields(log.Fields{
					"cart":    c.ID(),
					"product": line.ProductID,
				}).Warnf("checkout line rejected: %v", err)
				continue
			}

			// Store-level failure: abort the rest of the batch.
			abortErr = errors.Wrapf(err, "checkout aborted at line %d", i+1)
			continue
		}

		result.Committed++
		committed[line.ID] = true
		result.Outcomes = append(result.Outcomes, LineOutcome{Line: line, Committed: true})
	}

	c.RemoveLines(committed)
	result.Cleared = result.Failed == 0 && abortErr == nil

	return result, abortErr
}

func confirmLine(db *sqlx.DB, line model.CartLine) error {
	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if err := database.DecrementStockInTx(tx, line.ProductID, line.Quantity); err != nil {
		return err
	}

	rec := &model.SaleRecord{
		ID:          uuid.New().String(),
		ProductID:   line.ProductID,
		Quantity:    line.Quantity,
		TotalAmount: line.LineTotal,
		CreatedAt:   time.Now().UTC(),
	}
	if err := database.InsertSaleRecordInTx(tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit checkout line")
	}
	return nil
}

// isLineFailure distinguishes per-line validation failures, which the
// batch survives, from store-level errors, which abort it.
func isLineFailure(err error) bool {
	var insufficient *model.InsufficientStockError
	return errors.As(err, &insufficient) || errors.Is(err, model.ErrNotFound)
}
