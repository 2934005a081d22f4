package comments

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_comments_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Comment{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func seed(t *testing.T, db *gorm.DB) (*entities.User, *entities.Book, *entities.Book) {
	user := &entities.User{Username: "reader", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	book := &entities.Book{Name: "Dune", Web: "https://example.com"}
	require.NoError(t, db.Create(book).Error)
	other := &entities.Book{Name: "Emma", Web: "https://example.com"}
	require.NoError(t, db.Create(other).Error)
	return user, book, other
}

func TestCreateComment_TopLevel(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book, _ := seed(t, db)

	comment, err := repo.CreateComment(book.ID, user.ID, "Great read", nil)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.False(t, comment.IsReply())

	comments, err := repo.ListTopLevelComments(book.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Great read", comments[0].Text)
	assert.Equal(t, "reader", comments[0].User.Username)
}

func TestCreateComment_Reply(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book, _ := seed(t, db)

	parent, err := repo.CreateComment(book.ID, user.ID, "parent", nil)
	require.NoError(t, err)

	reply, err := repo.CreateComment(book.ID, user.ID, "reply", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	replies, err := repo.ListReplies(parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "reply", replies[0].Text)
}

func TestCreateComment_ReplyToReplyIsFlattened(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book, _ := seed(t, db)

	parent, err := repo.CreateComment(book.ID, user.ID, "parent", nil)
	require.NoError(t, err)
	reply, err := repo.CreateComment(book.ID, user.ID, "reply", &parent.ID)
	require.NoError(t, err)

	nested, err := repo.CreateComment(book.ID, user.ID, "nested", &reply.ID)
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, parent.ID, *nested.ParentID)
}

func TestCreateComment_ParentOnOtherBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book, other := seed(t, db)

	parent, err := repo.CreateComment(other.ID, user.ID, "elsewhere", nil)
	require.NoError(t, err)

	_, err = repo.CreateComment(book.ID, user.ID, "reply", &parent.ID)
	assert.ErrorIs(t, err, ErrParentNotFound)

	missing := uint(9999)
	_, err = repo.CreateComment(book.ID, user.ID, "reply", &missing)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestListTopLevelComments_Ordering(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book, other := seed(t, db)
	base := time.Now().Add(-time.Hour)

	older := &entities.Comment{BookID: book.ID, UserID: user.ID, Text: "older", CreatedAt: base}
	require.NoError(t, db.Create(older).Error)
	newer := &entities.Comment{BookID: book.ID, UserID: user.ID, Text: "newer", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.Create(newer).Error)
	require.NoError(t, db.Create(&entities.Comment{BookID: other.ID, UserID: user.ID, Text: "other book"}).Error)

	second := &entities.Comment{BookID: book.ID, UserID: user.ID, Text: "second reply", ParentID: &older.ID, CreatedAt: base.Add(3 * time.Minute)}
	first := &entities.Comment{BookID: book.ID, UserID: user.ID, Text: "first reply", ParentID: &older.ID, CreatedAt: base.Add(2 * time.Minute)}
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(first).Error)

	comments, err := repo.ListTopLevelComments(book.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "newer", comments[0].Text)
	assert.Equal(t, "older", comments[1].Text)
	assert.Empty(t, comments[0].Replies)

	require.Len(t, comments[1].Replies, 2)
	assert.Equal(t, "first reply", comments[1].Replies[0].Text)
	assert.Equal(t, "second reply", comments[1].Replies[1].Text)
	assert.Equal(t, "reader", comments[1].Replies[0].User.Username)
}
