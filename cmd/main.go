package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pomodoro/internal/platform"
)

const appName = "Pomodoro"

var version = "dev"

// CLI is the root command line.
type CLI struct {
	Verbose bool             `short:"v" env:"POMODORO_VERBOSE" help:"Enable debug logging"`
	Addr    string           `env:"POMODORO_ADDR" help:"Backend address (default: per-user loopback port)"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run     RunCmd     `cmd:"" default:"1" help:"Open the timer window and tray (default)"`
	Serve   ServeCmd   `cmd:"" help:"Run the timer backend without a window"`
	Status  StatusCmd  `cmd:"" help:"Show the timer"`
	Start   StartCmd   `cmd:"" help:"Start a countdown"`
	Pause   PauseCmd   `cmd:"" help:"Pause the running countdown"`
	Resume  ResumeCmd  `cmd:"" help:"Resume the paused countdown"`
	Clear   ClearCmd   `cmd:"" help:"Reset the current session"`
	Phase   PhaseCmd   `cmd:"" help:"Switch between work and break"`
	History HistoryCmd `cmd:"" help:"List completed countdowns"`
}

// AfterApply configures logging once flags are parsed.
func (cli *CLI) AfterApply() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cli.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}

func (cli *CLI) address() string {
	if cli.Addr != "" {
		return cli.Addr
	}
	return platform.DefaultAddress(appName)
}

func (cli *CLI) backendURL() string {
	address := cli.address()
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	return "http://" + address
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kongCtx := kong.Parse(&cli,
		kong.Name("pomodoro"),
		kong.Description("A Pomodoro timer with a desktop window, tray and terminal control."),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err := kongCtx.Run(&cli); err != nil {
		log.Error().Err(err).Str("command", kongCtx.Command()).Msg("command failed")
		cancel()
		os.Exit(1)
	}
}
