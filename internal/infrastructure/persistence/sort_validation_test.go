package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted field passes", func(t *testing.T) {
		assert.Equal(t, "number", ValidateSortField("number", JobSortFields, "created_at"))
		assert.Equal(t, "delivery_date", ValidateSortField(" Delivery_Date ", JobSortFields, "created_at"))
	})

	t.Run("unknown field falls back", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("password_hash", JobSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("1; DROP TABLE jobs", JobSortFields, "created_at"))
	})
}

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder("sideways"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
}
