package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// NumberGenerator issues sequential yearly document numbers of the form
// PREFIX-YYYY-NNNNN (e.g. J-2026-00042). Each entity type gets its own
// sequence per year, derived from the highest number already stored.
type NumberGenerator struct {
	db *gorm.DB
}

// NewNumberGenerator creates a number generator backed by the database
func NewNumberGenerator(db *gorm.DB) *NumberGenerator {
	return &NumberGenerator{db: db}
}

// Next returns the next number for the given table and prefix
func (g *NumberGenerator) Next(ctx context.Context, table, prefix string) (string, error) {
	year := time.Now().Year()
	full := fmt.Sprintf("%s-%d-", prefix, year)

	var last string
	err := g.db.WithContext(ctx).
		Table(table).
		Select("number").
		Where("number LIKE ?", full+"%").
		Order("number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var n int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &n); parseErr == nil {
				next = n + 1
			}
		}
	}
	return fmt.Sprintf("%s%05d", full, next), nil
}
