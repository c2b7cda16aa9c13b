// Command fluidroute routes the channels of a YAML-described
// microfluidic device and reports the outcome.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/routecache"
	"github.com/openfluidics/fluidroute/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fluidroute",
		Short:         "3D channel autorouter for microfluidic devices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRouteCmd())

	return root
}

func newRouteCmd() *cobra.Command {
	var (
		file     string
		cacheDir string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Resolve every route in a device description",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, file, cacheDir, verbose)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "device.yaml", "device description file")
	cmd.Flags().StringVar(&cacheDir, "cache", "", "route cache directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func runRoute(cmd *cobra.Command, file, cacheDir string, verbose bool) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := loadConfig(file)
	if err != nil {
		return err
	}
	comp, err := cfg.buildComponent()
	if err != nil {
		return err
	}

	opts := []router.Option{
		router.WithLogger(log),
		router.WithChannelSize(geom.GridPoint(cfg.Channel.Size)),
	}
	if m := cfg.Channel.Margin; m != nil {
		opts = append(opts, router.WithMargin(geom.GridPoint(*m)))
	}
	if cacheDir != "" {
		store, err := routecache.NewStore(cacheDir)
		if err != nil {
			return err
		}
		opts = append(opts, router.WithCache(store))
	}
	r, err := router.New(comp, opts...)
	if err != nil {
		return err
	}
	if err := cfg.registerRoutes(comp, r); err != nil {
		return err
	}

	report, err := r.Route()
	if err != nil {
		return err
	}
	for _, name := range report.Cached {
		log.Info().Str("route", name).Msg("cached")
	}
	for _, name := range report.Resolved {
		log.Info().Str("route", name).Msg("routed")
	}
	for _, f := range report.Failed {
		log.Error().Str("route", f.Name).Err(f.Err).Msg("failed")
	}
	log.Info().
		Int("routed", len(report.Resolved)).
		Int("cached", len(report.Cached)).
		Int("failed", len(report.Failed)).
		Int("searches", r.SearchCount()).
		Msg("done")
	if !report.Ok() {
		return fmt.Errorf("%d route(s) failed", len(report.Failed))
	}

	return nil
}
