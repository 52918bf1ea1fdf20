package logics

import (
	"testing"

	"duet-server/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listWithItems(positions ...string) *models.List {
	list := &models.List{ID: "LS01GROCERY01", Title: "Groceries"}
	for i, p := range positions {
		list.Items = append(list.Items, models.ListItem{
			ID:       string(rune('a'+i)) + "-item",
			Position: decimal.RequireFromString(p),
		})
	}
	return list
}

func TestPositionFor(t *testing.T) {
	t.Run("append to empty list starts at one", func(t *testing.T) {
		pos, err := positionFor(listWithItems(), "")
		require.NoError(t, err)
		assert.True(t, pos.Equal(decimal.NewFromInt(1)))
	})

	t.Run("append takes max plus one", func(t *testing.T) {
		pos, err := positionFor(listWithItems("1", "3", "2"), "")
		require.NoError(t, err)
		assert.True(t, pos.Equal(decimal.NewFromInt(4)))
	})

	t.Run("insert takes the midpoint", func(t *testing.T) {
		list := listWithItems("1", "2")
		pos, err := positionFor(list, list.Items[0].ID)
		require.NoError(t, err)
		assert.True(t, pos.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("insert after last behaves like append", func(t *testing.T) {
		list := listWithItems("1", "2")
		pos, err := positionFor(list, list.Items[1].ID)
		require.NoError(t, err)
		assert.True(t, pos.Equal(decimal.NewFromInt(3)))
	})

	t.Run("repeated inserts keep distinct order", func(t *testing.T) {
		list := listWithItems("1", "2")
		first, err := positionFor(list, list.Items[0].ID)
		require.NoError(t, err)
		list.Items = append(list.Items, models.ListItem{ID: "mid-item", Position: first})

		second, err := positionFor(list, list.Items[0].ID)
		require.NoError(t, err)

		assert.True(t, second.GreaterThan(list.Items[0].Position))
		assert.True(t, second.LessThan(first))
	})

	t.Run("unknown anchor errors", func(t *testing.T) {
		_, err := positionFor(listWithItems("1"), "missing")
		assert.Error(t, err)
	})
}
