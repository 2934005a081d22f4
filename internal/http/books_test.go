package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooksController_List(t *testing.T) {
	app := newTestApp(t)
	app.createBook(t, "Harry Potter", nil)
	app.createBook(t, "Dune", nil)

	w := app.newClient().get("/books")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Harry Potter")
	assert.Contains(t, body, "Dune")
	assert.Contains(t, body, `src="/uploads/cover.png"`)
	assert.Contains(t, body, "$19.99")
}

func TestBooksController_ListEmpty(t *testing.T) {
	app := newTestApp(t)

	w := app.newClient().get("/books")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No books yet.")
}

func TestBooksController_Search(t *testing.T) {
	app := newTestApp(t)
	app.createBook(t, "Harry Potter", nil)
	app.createBook(t, "Dune", nil)
	cl := app.newClient()

	t.Run("matches case-insensitively", func(t *testing.T) {
		w := cl.get("/search?q=HAR")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Harry Potter")
		assert.NotContains(t, w.Body.String(), "Dune")
	})

	t.Run("empty query has no results", func(t *testing.T) {
		w := cl.get("/search?q=")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Harry Potter")
		assert.NotContains(t, w.Body.String(), "result(s)")
	})

	t.Run("absent query has no results", func(t *testing.T) {
		w := cl.get("/search")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Harry Potter")
	})

	t.Run("blank query has no results", func(t *testing.T) {
		w := cl.get("/search?q=++")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "No books match")
		assert.NotContains(t, w.Body.String(), "result(s)")
	})

	t.Run("trailing space is part of the query", func(t *testing.T) {
		w := cl.get("/search?q=dune+")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No books match")
	})

	t.Run("no match", func(t *testing.T) {
		w := cl.get("/search?q=zzz")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No books match")
	})
}

func TestBooksController_MyBooks(t *testing.T) {
	app := newTestApp(t)

	t.Run("redirects anonymous users to login", func(t *testing.T) {
		w := app.newClient().get("/mybooks")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Fmybooks", w.Header().Get("Location"))
	})

	t.Run("shows owned and favorited books", func(t *testing.T) {
		cl, alice := app.loggedInClient(t, "alice")
		bob := app.createUser(t, "bob")

		app.createBook(t, "Alice Own Book", alice)
		bobs := app.createBook(t, "Bob Favourite Book", bob)
		app.createBook(t, "Unrelated Book", bob)

		favorited, err := app.favorites.ToggleFavorite(bobs.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, favorited)

		w := cl.get("/mybooks")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Alice Own Book")
		assert.Contains(t, body, "Bob Favourite Book")
		assert.NotContains(t, body, "Unrelated Book")
	})
}
