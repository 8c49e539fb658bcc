package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sale is a single point-of-sale transaction recorded locally, awaiting or
// having completed remote synchronization.
type Sale struct {
	ID        string  `json:"id"`
	Item      string  `json:"item"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	CreatedAt int64   `json:"createdAt"` // unix milliseconds
	Synced    bool    `json:"synced"`
}

// Total returns the line total for the sale.
func (s Sale) Total() float64 {
	return s.Qty * s.Price
}

// CreatedTime returns CreatedAt as a time.Time.
func (s Sale) CreatedTime() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// NewSaleID generates a sale identifier. The millisecond timestamp keeps ids
// roughly ordered; the uuid suffix disambiguates rapid successive calls
// within the same millisecond.
func NewSaleID(now time.Time) string {
	return fmt.Sprintf("s_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
