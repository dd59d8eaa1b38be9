package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/athar-archive/core/internal/models"
)

func TestNormalizeDate(t *testing.T) {
	date := time.Date(1998, 3, 14, 0, 0, 0, 0, time.UTC)
	year := 1998

	p, d, y := normalizeDate(models.DatePrecisionFull, &date, &year)
	assert.Equal(t, models.DatePrecisionFull, p)
	assert.Equal(t, &date, d)
	assert.Nil(t, y)

	p, d, y = normalizeDate(models.DatePrecisionYear, &date, &year)
	assert.Equal(t, models.DatePrecisionYear, p)
	assert.Nil(t, d)
	assert.Equal(t, &year, y)

	p, d, y = normalizeDate(models.DatePrecisionUnknown, &date, &year)
	assert.Equal(t, models.DatePrecisionUnknown, p)
	assert.Nil(t, d)
	assert.Nil(t, y)

	// Anything unrecognized collapses to unknown.
	p, d, y = normalizeDate("approximate", &date, &year)
	assert.Equal(t, models.DatePrecisionUnknown, p)
	assert.Nil(t, d)
	assert.Nil(t, y)
}
