package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-kitchen/internal/domain"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 7)
	assert.Equal(t, "h1", all[0].ID)

	all[0].Price = 1
	assert.Equal(t, int64(12000), All()[0].Price, "callers get a copy")
}

func TestByCategory(t *testing.T) {
	burgers, err := ByCategory(domain.CategoryBurgers)
	require.NoError(t, err)
	assert.Len(t, burgers, 3)

	fries, err := ByCategory(domain.CategoryFries)
	require.NoError(t, err)
	assert.Len(t, fries, 3)

	drinks, err := ByCategory(domain.CategoryDrinks)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, int64(1500), drinks[0].Price)

	_, err = ByCategory("desserts")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFind(t *testing.T) {
	it, err := Find("p2")
	require.NoError(t, err)
	assert.Equal(t, int64(8500), it.Price)

	_, err = Find("zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
