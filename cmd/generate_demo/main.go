// Command generate_demo creates a demo database with sample books, readers,
// comments, ratings and favorites.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-uploads path/to/uploads]
package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/comments"
	"github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/ratings"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/storage/local"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	defaultDemoUploadDir    = "./demo/uploads"
	demoPassword            = "demo-password"
)

// demoBook is a public domain title with the reactions it gets.
type demoBook struct {
	Name       string
	Web        string
	PriceCents int64
	Cover      color.RGBA
	Owner      string // empty for an anonymous post
	Comments   []demoComment
	Stars      map[string]int
	FavoriteBy []string
}

type demoComment struct {
	Author  string
	Text    string
	Replies []demoComment
}

var readers = []string{"ada", "grace", "linus"}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	uploadDir := flag.String("uploads", defaultDemoUploadDir, "directory for generated book pictures")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	pictures, err := local.NewStore(*uploadDir, config.DefaultUploadURLPrefix)
	if err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	userIDs := createReaders(db)

	bookRepo := books.NewRepository(db.DB)
	commentRepo := comments.NewRepository(db.DB)
	ratingRepo := ratings.NewRepository(db.DB)
	favoriteRepo := favourites.NewRepository(db.DB)

	for _, demo := range getPublicDomainBooks() {
		cover, err := coverPNG(demo.Cover)
		if err != nil {
			log.Fatalf("Failed to render cover for %s: %v", demo.Name, err)
		}
		object, err := pictures.Save(context.Background(), demo.Name+".png", bytes.NewReader(cover), "image/png")
		if err != nil {
			log.Fatalf("Failed to store cover for %s: %v", demo.Name, err)
		}

		book := &entities.Book{
			Name:       demo.Name,
			Web:        demo.Web,
			PriceCents: demo.PriceCents,
			PictureKey: object.Key,
			PictureURL: object.URL,
		}
		if id, ok := userIDs[demo.Owner]; ok {
			book.OwnerID = &id
		}
		if err := bookRepo.CreateBook(book); err != nil {
			log.Printf("Failed to save book %s: %v", demo.Name, err)
			continue
		}

		for _, c := range demo.Comments {
			parent, err := commentRepo.CreateComment(book.ID, userIDs[c.Author], c.Text, nil)
			if err != nil {
				log.Printf("Failed to add comment to %s: %v", demo.Name, err)
				continue
			}
			for _, r := range c.Replies {
				if _, err := commentRepo.CreateComment(book.ID, userIDs[r.Author], r.Text, &parent.ID); err != nil {
					log.Printf("Failed to add reply to %s: %v", demo.Name, err)
				}
			}
		}

		for reader, stars := range demo.Stars {
			if err := ratingRepo.UpsertRating(book.ID, userIDs[reader], stars); err != nil {
				log.Printf("Failed to rate %s: %v", demo.Name, err)
			}
		}

		for _, reader := range demo.FavoriteBy {
			if _, err := favoriteRepo.ToggleFavorite(book.ID, userIDs[reader]); err != nil {
				log.Printf("Failed to favorite %s: %v", demo.Name, err)
			}
		}

		log.Printf("Saved: %s (%d comments, %d ratings)", demo.Name, len(demo.Comments), len(demo.Stars))
	}

	log.Printf("Demo readers: %v (password %q)", readers, demoPassword)
	log.Println("Demo database generated successfully!")
}

func createReaders(db *database.Database) map[string]uint {
	service := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: 10})

	ids := make(map[string]uint, len(readers))
	for _, name := range readers {
		user, err := service.Register(name, demoPassword)
		if err != nil {
			log.Fatalf("Failed to create reader %s: %v", name, err)
		}
		ids[name] = user.ID
	}
	return ids
}

// coverPNG renders a small single colour cover.
func coverPNG(c color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 180))
	for y := 0; y < 180; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getPublicDomainBooks() []demoBook {
	return []demoBook{
		{
			Name:       "Meditations",
			Web:        "https://www.gutenberg.org/ebooks/2680",
			PriceCents: 0,
			Cover:      color.RGBA{R: 122, G: 92, B: 62, A: 255},
			Owner:      "ada",
			Comments: []demoComment{
				{
					Author: "grace",
					Text:   "Short chapters, easy to read one at a time.",
					Replies: []demoComment{
						{Author: "ada", Text: "I keep it on my nightstand for that reason."},
					},
				},
				{Author: "linus", Text: "The Hays translation is the most readable."},
			},
			Stars:      map[string]int{"grace": 5, "linus": 4},
			FavoriteBy: []string{"grace"},
		},
		{
			Name:       "Pride and Prejudice",
			Web:        "https://www.gutenberg.org/ebooks/1342",
			PriceCents: 499,
			Cover:      color.RGBA{R: 180, G: 64, B: 96, A: 255},
			Owner:      "grace",
			Comments: []demoComment{
				{Author: "ada", Text: "The first line alone is worth it."},
			},
			Stars:      map[string]int{"ada": 5, "linus": 3},
			FavoriteBy: []string{"ada", "linus"},
		},
		{
			Name:       "Frankenstein",
			Web:        "https://www.gutenberg.org/ebooks/84",
			PriceCents: 350,
			Cover:      color.RGBA{R: 40, G: 70, B: 50, A: 255},
			Owner:      "linus",
			Stars:      map[string]int{"ada": 4, "grace": 4, "linus": 5},
		},
		{
			Name:       "The Time Machine",
			Web:        "https://www.gutenberg.org/ebooks/35",
			PriceCents: 299,
			Cover:      color.RGBA{R: 30, G: 60, B: 140, A: 255},
			Comments: []demoComment{
				{
					Author: "linus",
					Text:   "Posted anonymously, but a great pick.",
					Replies: []demoComment{
						{Author: "grace", Text: "Agreed, the Eloi chapters still hold up."},
					},
				},
			},
			Stars: map[string]int{"grace": 3},
		},
		{
			Name:       "Alice's Adventures in Wonderland",
			Web:        "https://www.gutenberg.org/ebooks/11",
			PriceCents: 150,
			Cover:      color.RGBA{R: 220, G: 180, B: 40, A: 255},
			Owner:      "ada",
			FavoriteBy: []string{"linus"},
		},
	}
}
