package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jrsteele09/go-oura-client/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("ouractl")
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v\n%s", r, debug.Stack())
			returnError = fmt.Errorf("panic: %v", r)
		}
	}()
	return cli.Execute()
}
