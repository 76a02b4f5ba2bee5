package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"gorm.io/gorm"
)

const (
	saleNumberDayLayout = "20060102"
	maxDailySequence    = 9999
)

var saleNumberPattern = regexp.MustCompile(`^(\d{8})-(\d{4})$`)

// SaleNumberGenerator hands out human-readable sale numbers (YYYYMMDD-NNNN).
// The counter lives in sale_sequences, so allocation is safe under concurrent
// checkouts as long as Generate runs inside the recording transaction.
type SaleNumberGenerator struct {
	repo repository.SaleRepository
	loc  *time.Location
}

func NewSaleNumberGenerator(repo repository.SaleRepository, loc *time.Location) *SaleNumberGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleNumberGenerator{repo: repo, loc: loc}
}

// Generate allocates the next number for the store-local day of now.
func (g *SaleNumberGenerator) Generate(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	day := now.In(g.loc)
	seq, err := g.repo.NextDailySequenceTx(ctx, tx, day.Format(saleNumberDayLayout))
	if err != nil {
		return "", fmt.Errorf("%w: allocate sale number: %v", ErrRetrieval, err)
	}
	if seq > maxDailySequence {
		return "", ErrSaleNumberExhausted
	}
	return FormatSaleNumber(day, seq), nil
}

func FormatSaleNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", day.Format(saleNumberDayLayout), seq)
}

// ParseSaleNumber splits a sale number into its day prefix and sequence.
func ParseSaleNumber(s string) (day string, seq int, err error) {
	m := saleNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, fmt.Errorf("%w: malformed sale number %q", ErrValidation, s)
	}
	if _, err := time.Parse(saleNumberDayLayout, m[1]); err != nil {
		return "", 0, fmt.Errorf("%w: malformed sale number %q", ErrValidation, s)
	}
	seq, _ = strconv.Atoi(m[2])
	return m[1], seq, nil
}
