// Package main implements hostfetch, which collects facts about the running host and renders
// them through Lua templates.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ilexum-group/hostfetch/internal/acquisition"
	"github.com/ilexum-group/hostfetch/internal/config"
	"github.com/ilexum-group/hostfetch/internal/gather"
	hostos "github.com/ilexum-group/hostfetch/internal/os"
	"github.com/ilexum-group/hostfetch/internal/render"
	"github.com/ilexum-group/hostfetch/internal/utils"
	"github.com/ilexum-group/hostfetch/pkg/models"
)

const version = "1.0.0"

func main() {
	if err := utils.InitDefaultLogger(); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.LoadFromFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		cfg = &config.Config{Help: true}
	} else if err != nil {
		return fmt.Errorf("arguments: %w", err)
	}

	if cfg.Help {
		_, err := fmt.Fprintf(stdout, "Usage: hostfetch [flags]\n\n%s", cfg.Usage)
		return err
	}
	if cfg.Version {
		_, err := fmt.Fprintf(stdout, "hostfetch %s\n", version)
		return err
	}

	level, err := utils.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	utils.DefaultLogger.SetLevel(level)
	utils.LogInfo("Starting hostfetch", map[string]string{"version": version, "config_dir": cfg.ConfigDir})

	sys, err := hostos.NewWithOptions(hostos.CollectorOptions{Root: cfg.Root})
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	plan := gather.DefaultPlan()
	if err := plan.Disable(cfg.Disable...); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	export := models.NewExport(version)
	res, err := acquisition.New(plan, sys).Acquire(ctx)
	if err != nil {
		return err
	}

	if cfg.JSON {
		export.Finalize(res.Snapshot, res.Probes, res.Commands, utils.GetLogs())
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(export)
	}

	layout, err := render.New(plan, render.Options{
		AsciiDistro: cfg.AsciiDistro,
		Logo:        cfg.Logo,
		ArtPath:     cfg.ArtPath(),
		InfoPath:    cfg.InfoPath(),
		LayoutPath:  cfg.LayoutPath(),
	}).Run(res.Snapshot)
	if err != nil {
		return err
	}

	_, err = io.WriteString(stdout, layout)
	return err
}

// printError writes the one-line failure report, with a red header on a terminal
func printError(w *os.File, err error) {
	header := "Error."
	if term.IsTerminal(int(w.Fd())) {
		header = "\x1b[1;31mError.\x1b[0m"
	}
	_, _ = fmt.Fprintf(w, "%s %v\n", header, err)
}
