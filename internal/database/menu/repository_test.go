package menu

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/database"
)

func TestListMenu_ReturnsSeededItems(t *testing.T) {
	dbPath := "./test_menu.db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	repo := NewRepository(db.DB)
	items, err := repo.ListMenu()
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Equal(t, "Home", items[0].Item)
	assert.Equal(t, "/", items[0].Link)

	links := make([]string, 0, len(items))
	for _, item := range items {
		links = append(links, item.Link)
	}
	assert.Contains(t, links, "/postbook")
	assert.Contains(t, links, "/books")
	assert.Contains(t, links, "/search")
}
