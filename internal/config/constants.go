package config

// Default paths for databases and uploads
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUploadDir is where the local storage backend writes book pictures
	DefaultUploadDir = "./uploads"

	// DefaultUploadURLPrefix is the URL path the local upload directory is served under
	DefaultUploadURLPrefix = "/uploads"
)
