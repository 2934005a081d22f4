// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite/postgres), migrations, menu seeding
//	├── books/           # Book CRUD, owner/favoriter/name lookups, cascade delete
//	├── comments/        # Top-level comments and one level of replies
//	├── ratings/         # Atomic rating upsert and averages
//	├── favourites/      # Atomic favourite toggle
//	├── menu/            # Main menu entries
//	├── audit/           # Audit event log
//	└── users/           # User management
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./app.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	ratingsRepo := ratings.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBookByID(123)
//	err = ratingsRepo.UpsertRating(book.ID, userID, 5)
//
// # Interface Implementations
//
//   - books.Repository: implements http.BookStore
//   - comments.Repository: implements http.CommentStore
//   - ratings.Repository: implements http.RatingStore
//   - favourites.Repository: implements http.FavouriteStore
//   - menu.Repository: implements http.MenuStore
//   - users.Repository: implements auth.UserRepository
//
// # Concurrency
//
// Rating upserts and favourite toggles rely on the unique (book_id, user_id)
// indexes and are issued as single conditional writes, so two simultaneous
// submissions from the same user never surface a constraint error.
package database
