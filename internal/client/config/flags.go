package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/soldbd/internal/flagx"
)

// ValueFlags lists the flags that take a separate value, so the CLI can find
// its subcommand with flagx.Positional.
var ValueFlags = []string{"-a", "-b", "-k", "-s", "-t", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     API base URL
//	-b string     backend: selfhosted or platform
//	-k string     platform API key
//	-s string     session database path
//	-t duration   HTTP timeout
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-k", "-s", "-t"})

	fs := flag.NewFlagSet("soldctl", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend (selfhosted|platform)")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "platform API key")
	fs.StringVar(&cfg.SessionDB, "s", cfg.SessionDB, "session database path")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "HTTP timeout")

	return fs.Parse(args)
}
