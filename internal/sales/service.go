package sales

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/domain"
)

// Service validates and creates sale records and presents current sale state
// for display.
type Service struct {
	store    domain.Store
	activity *activity.Logger
	logger   *slog.Logger
}

// NewService creates a new sale lifecycle service.
func NewService(store domain.Store, act *activity.Logger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, activity: act, logger: logger}
}

// Record validates the raw input, persists a new unsynced sale and logs a
// sale_add event. Item must be non-empty after trimming; qty and price must
// parse as numbers. Values are otherwise accepted as given.
func (s *Service) Record(item, qty, price string) (*domain.Sale, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, domain.ErrEmptyItem
	}

	qtyN, err := parseNumber(qty)
	if err != nil {
		return nil, fmt.Errorf("qty %w", err)
	}
	priceN, err := parseNumber(price)
	if err != nil {
		return nil, fmt.Errorf("price %w", err)
	}

	now := time.Now()
	sale := &domain.Sale{
		ID:        domain.NewSaleID(now),
		Item:      item,
		Qty:       qtyN,
		Price:     priceN,
		CreatedAt: now.UnixMilli(),
		Synced:    false,
	}

	if err := s.store.InsertSale(sale); err != nil {
		s.logger.Error("failed to save sale", "sale_id", sale.ID, "error", err)
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.activity.Log(domain.EventSaleAdd,
		fmt.Sprintf("New sale: %s x%s (₦%s)", sale.Item, trimNumber(qtyN), trimNumber(priceN)))

	s.logger.Info("sale recorded", "sale_id", sale.ID, "item", sale.Item,
		"qty", sale.Qty, "price", sale.Price)
	return sale, nil
}

// List returns all sales, most recent first. The ordering is a display
// contract; the store itself keeps no order.
func (s *Service) List() ([]domain.Sale, error) {
	all, err := s.store.Sales()
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt > all[j].CreatedAt
	})
	return all, nil
}

// Pending returns unsynced sales, oldest first, so a sync pass attempts them
// in recording order.
func (s *Service) Pending() ([]domain.Sale, error) {
	all, err := s.store.Sales()
	if err != nil {
		return nil, err
	}
	pending := make([]domain.Sale, 0)
	for _, sale := range all {
		if !sale.Synced {
			pending = append(pending, sale)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt < pending[j].CreatedAt
	})
	return pending, nil
}

func parseNumber(raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", domain.ErrBadNumber, raw)
	}
	return n, nil
}

// trimNumber formats a float without trailing zeros for log messages.
func trimNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
