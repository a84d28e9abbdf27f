// Package main runs the fieldpath web server.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	"go.viam.com/fieldpath/config"
	"go.viam.com/fieldpath/web"
)

var logger = golog.NewDevelopmentLogger("fieldpath-server")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,required,usage=path to server config file"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := config.ReadServerConfig(argsParsed.ConfigFile)
	if err != nil {
		return err
	}

	return web.NewServer(cfg, logger).Start(ctx)
}
