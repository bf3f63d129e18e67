package replenish

import (
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"magazyn/database"
	"magazyn/model"
)

// Outcome reports one flagged product of a replenishment run.
type Outcome struct {
	Product model.ProductView `json:"product"`
	Applied bool              `json:"applied"`
}

// Summary is the result of one bulk replenishment run.
type Summary struct {
	Threshold    int       `json:"threshold"`
	RestockLevel int       `json:"restockLevel"`
	Flagged      int       `json:"flagged"`
	Applied      int       `json:"applied"`
	Skipped      int       `json:"skipped"`
	Outcomes     []Outcome `json:"outcomes"`
}

// Run scans for products at or below the threshold and restocks each to
// the restock level with one conditional write per product. The write is
// an overwrite, not an addition, and takes no cart reservations into
// account; the threshold condition on the write only narrows the race
// with concurrent checkouts. Products lifted above the threshold between
// scan and write are skipped.
func Run(db *sqlx.DB, threshold, restockLevel int) (*Summary, error) {
	flagged, err := database.GetLowStockProducts(db, threshold)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Threshold:    threshold,
		RestockLevel: restockLevel,
		Flagged:      len(flagged),
		Outcomes:     make([]Outcome, 0, len(flagged)),
	}

	for _, p := range flagged {
		applied, err := database.RestockTo(db, p.ID, restockLevel, threshold)
		if err != nil {
			return nil, err
		}
		if applied {
			summary.Applied++
		} else {
			summary.Skipped++
			log.WithField("product", p.ID).Warn("restock skipped, quantity moved above threshold")
		}
		summary.Outcomes = append(summary.Outcomes, Outcome{Product: p, Applied: applied})
	}

	return summary, nil
}
