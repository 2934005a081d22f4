package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// AuditLogCommand prints recorded audit events, either for one user or for one book.
type AuditLogCommand struct {
	Username string
	BookID   uint
	Limit    int

	cfg *config.Config
	out io.Writer
}

func NewAuditLogCommand(cfg *config.Config) *AuditLogCommand {
	return &AuditLogCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *AuditLogCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("audit-log", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "user", "", "Show events of this user")
	fs.UintVar(&cmd.BookID, "book", 0, "Show the history of this book id")
	fs.IntVar(&cmd.Limit, "limit", 50, "Maximum number of user events")
	fs.StringVar(&cmd.cfg.Database.Path, "db", cmd.cfg.Database.Path, "Path to the SQLite database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s audit-log (-user NAME | -book ID) [options]\n\n", os.Args[0])
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if (cmd.Username == "") == (cmd.BookID == 0) {
		fs.Usage()
		return fmt.Errorf("exactly one of -user or -book is required")
	}
	return nil
}

func (cmd *AuditLogCommand) Run() error {
	db, err := database.Open(cmd.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	service := audit.NewService(auditrepo.NewRepository(db.DB))

	var events []entities.AuditEvent
	if cmd.BookID != 0 {
		events, err = service.BookHistory(cmd.BookID)
	} else {
		user, lookupErr := users.NewRepository(db.DB).GetUserByUsername(cmd.Username)
		if lookupErr != nil {
			return fmt.Errorf("failed to find user %s: %w", cmd.Username, lookupErr)
		}
		events, _, err = service.GetEvents(user.ID, cmd.Limit, 0)
	}
	if err != nil {
		return fmt.Errorf("failed to load audit events: %w", err)
	}

	w := tabwriter.NewWriter(cmd.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tACTION\tSTATUS\tDESCRIPTION")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.EventType, e.Action, e.Status, e.Description)
	}
	return w.Flush()
}
