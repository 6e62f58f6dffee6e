package main

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/cmd/cli/internal/commands"
	"github.com/saajha/bloodlink/internal/config"
	"github.com/saajha/bloodlink/internal/logger"
	"github.com/saajha/bloodlink/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Home       commands.HomeCmd       `cmd:"" default:"1" help:"Show the portal home page"`
		Login      commands.LoginCmd      `cmd:"" help:"Sign in"`
		Register   commands.RegisterCmd   `cmd:"" help:"Create an account"`
		Logout     commands.LogoutCmd     `cmd:"" help:"Sign out"`
		Status     commands.StatusCmd     `cmd:"" help:"Show the current session"`
		Dashboard  commands.DashboardCmd  `cmd:"" help:"Show your dashboard"`
		Requests   commands.RequestsCmd   `cmd:"" help:"Blood requests"`
		Donors     commands.DonorsCmd     `cmd:"" help:"Find donors"`
		Facilities commands.FacilitiesCmd `cmd:"" help:"Medical facilities"`
		Donations  commands.DonationsCmd  `cmd:"" help:"Donation history"`
		Profile    commands.ProfileCmd    `cmd:"" help:"Show your profile"`
		Open       commands.OpenCmd       `cmd:"" help:"Open a portal route by path"`

		Debug      bool             `help:"Enable debug mode."`
		Server     string           `help:"Portal server URL" env:"BLOODLINK_SERVER" default:"http://localhost:8001"`
		Timeout    time.Duration    `help:"Request timeout" default:"30s"`
		SessionDir string           `help:"Directory for the stored session" env:"BLOODLINK_SESSION_DIR"`
		CacheDir   string           `help:"Directory for cached public data, memory only when empty" env:"BLOODLINK_CACHE_DIR"`
		NoColor    bool             `help:"Disable coloured notifications" env:"BLOODLINK_NO_COLOR"`
		Tracing    bool             `help:"Export traces and metrics over OTLP" env:"BLOODLINK_TRACING"`
		Config     kong.ConfigFlag  `help:"YAML config file"`
		Version    kong.VersionFlag `help:"Print version and exit"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("bloodlink"),
		kong.Description("Command line client for the NGO SAAJHA blood donation portal."),
		kong.Vars{
			"version": version,
		},
		kong.Configuration(config.YAML, config.DefaultPath),
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	shutdown := telemetry.Shutdown(func(context.Context) error { return nil })
	if cli.Tracing {
		var err error
		shutdown, err = telemetry.InitTelemetry(ctx, telemetry.Config{
			ServiceName: "bloodlink",
			Version:     version,
			SampleRatio: 1,
		})
		cmd.FatalIfErrorf(err)
	}

	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Version:    version,
		Server:     cli.Server,
		Timeout:    cli.Timeout,
		SessionDir: cli.SessionDir,
		CacheDir:   cli.CacheDir,
		NoColor:    cli.NoColor,
	})

	if serr := shutdown(context.Background()); serr != nil {
		log.Warn().Err(serr).Msg("failed to flush telemetry")
	}

	cmd.FatalIfErrorf(err)
}
