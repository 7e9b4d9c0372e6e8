package config

import (
	"flag"
	"os"
	"time"

	"github.com/mydayapp/myday/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the local database file
//	-r string   base URL of the remote document store
//	-a string   base URL of the identity service
//	-t int      sync timeout in seconds
//
// Only the flags handled here are parsed, via flagx.FilterArgs, to avoid
// interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.CouchURL, "r", cfg.CouchURL, "base URL of the remote document store")
	fs.StringVar(&cfg.IdentityURL, "a", cfg.IdentityURL, "base URL of the identity service")
	syncTimeout := fs.Int("t", int(cfg.SyncTimeout.Seconds()), "sync timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncTimeout = time.Duration(*syncTimeout) * time.Second
}
