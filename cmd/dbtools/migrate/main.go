// cmd/dbtools/migrate/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frontdesk-hq/frontdesk/internal/db"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Path to the devapi SQLite database")
		command = flag.String("command", "", "Command to run (up, down, version)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	version, dirty, err := db.Migrate(*dbPath, *command)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Str("command", *command).Msg("Migration failed")
	}
	fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
}
