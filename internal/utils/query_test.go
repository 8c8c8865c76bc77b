package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=500&page=0&bad=x", nil)
	assert.Equal(t, 100, QueryInt(r, "limit", 20, 1, 100))
	assert.Equal(t, 1, QueryInt(r, "page", 1, 1, 0))
	assert.Equal(t, 20, QueryInt(r, "bad", 20, 1, 100))
	assert.Equal(t, 20, QueryInt(r, "missing", 20, 1, 100))
}

func TestQueryPointers(t *testing.T) {
	r := httptest.NewRequest("GET", "/?min_price=1500.5&bedrooms=2&city=%20&pets_allowed=true", nil)
	assert.Equal(t, 1500.5, *QueryFloat(r, "min_price"))
	assert.Equal(t, 2, *QueryIntPtr(r, "bedrooms"))
	assert.Nil(t, QueryString(r, "city"))
	assert.True(t, *QueryBool(r, "pets_allowed"))
	assert.Nil(t, QueryBool(r, "missing"))
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 20))
	assert.Equal(t, 1, Pages(20, 20))
	assert.Equal(t, 2, Pages(21, 20))
	assert.Equal(t, 0, Pages(5, 0))
}
