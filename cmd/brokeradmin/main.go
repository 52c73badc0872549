package main

import (
	"os"

	"github.com/ottermq/brokeradmin/config"
	"github.com/rs/zerolog/log"
)

var (
	VERSION = ""
)

func main() {
	// Load configuration from .env file, environment variables, or defaults
	cfg := config.LoadConfig(VERSION)

	if err := newRootCmd(cfg).Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
