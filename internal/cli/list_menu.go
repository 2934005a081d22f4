package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/menu"
)

// ListMenuCommand prints the navigation menu entries.
type ListMenuCommand struct {
	cfg *config.Config
	out io.Writer
}

func NewListMenuCommand(cfg *config.Config) *ListMenuCommand {
	return &ListMenuCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *ListMenuCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-menu", flag.ContinueOnError)
	fs.StringVar(&cmd.cfg.Database.Path, "db", cmd.cfg.Database.Path, "Path to the SQLite database file")
	return fs.Parse(args)
}

func (cmd *ListMenuCommand) Run() error {
	db, err := database.Open(cmd.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := menu.NewRepository(db.DB).ListMenu()
	if err != nil {
		return fmt.Errorf("failed to list menu: %w", err)
	}

	w := tabwriter.NewWriter(cmd.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tLINK")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.ID, item.Item, item.Link)
	}
	return w.Flush()
}
