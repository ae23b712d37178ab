// Command getscript serves cleaned YouTube transcripts over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/getscript/app"
	"github.com/kbukum/getscript/config"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "path to config.yml (searched in standard locations when empty)")
	envFile := flag.String("env", "", "path to a .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", app.ServiceName, version.GetShortVersion(), version.GetVersionInfo().GoVersion)
		return 0
	}

	var cfg app.Config
	opts := []config.LoaderOption{config.WithDefaults(map[string]any{
		"name":       app.ServiceName,
		"version":    version.GetVersionInfo().Version,
		"cleanup.ai": true,
	})}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	if err := config.LoadConfig(app.ServiceName, &cfg, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "getscript: %v\n", err)
		return 1
	}

	ctx := context.Background()
	svc, err := app.New(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "getscript: %v\n", err)
		return 1
	}
	if err := svc.Run(ctx); err != nil {
		svc.App.Logger.Error("getscript stopped with error", logger.Fields(logger.FieldError, err.Error()))
		return 1
	}
	return 0
}
