package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams_Defaults(t *testing.T) {
	p := ParseParams("", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	p = ParseParams("0", "-5")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	p = ParseParams("abc", "xyz")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestParseParams_Cap(t *testing.T) {
	p := ParseParams("2", "500")
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, i)
	}

	page, meta := Paginate(items, Params{Page: 1, PerPage: 25})
	assert.Len(t, page, 25)
	assert.Equal(t, 0, page[0])
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Nil(t, meta.PrevPage)
	assert.Equal(t, 2, *meta.NextPage)
	assert.Equal(t, 60, meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)

	page, meta = Paginate(items, Params{Page: 3, PerPage: 25})
	assert.Len(t, page, 10)
	assert.Equal(t, 50, page[0])
	assert.Equal(t, 2, *meta.PrevPage)
	assert.Nil(t, meta.NextPage)
}

func TestPaginate_PastEnd(t *testing.T) {
	page, meta := Paginate([]int{1, 2, 3}, Params{Page: 5, PerPage: 25})
	assert.Empty(t, page)
	assert.Equal(t, 5, meta.CurrentPage)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestPaginate_Empty(t *testing.T) {
	page, meta := Paginate([]string{}, Params{Page: 1, PerPage: 25})
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.TotalItems)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Nil(t, meta.PrevPage)
	assert.Nil(t, meta.NextPage)
}
