package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Offset())
}

func TestNewPaginationEmptyResult(t *testing.T) {
	p := NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
}
