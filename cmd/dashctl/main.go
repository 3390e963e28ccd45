// Command dashctl inspects and drives the broker shared by the phone
// bridge and the dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/media"
)

type app struct {
	cfg     *config.Settings
	svc     *media.Service
	store   *broker.Client
	log     *zap.Logger
	timeout time.Duration
}

type appKey struct{}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
		timeout    time.Duration
		noColor    bool
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect and control the dashboard's media broker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: XDG search path)")
	root.PersistentFlags().StringVar(&host, "host", "", "broker host override")
	root.PersistentFlags().IntVar(&port, "port", 0, "broker port override")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Second, "per-command timeout")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log broker activity to stderr")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if noColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		var (
			s   *config.Settings
			err error
		)
		if configPath != "" {
			s, err = config.LoadFrom(configPath)
		} else {
			s, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		opts := s.BrokerOptions()
		if host != "" {
			opts.Host = host
		}
		if port > 0 {
			opts.Port = port
		}

		log := zap.NewNop()
		if verbose {
			if log, err = zap.NewDevelopment(); err != nil {
				return err
			}
		}

		store := broker.New(opts, log)
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
			cfg:     s,
			svc:     media.New(store, log),
			store:   store,
			log:     log,
			timeout: timeout,
		}))
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if a := fromContext(cmd); a != nil {
			_ = a.log.Sync()
			return a.store.Close()
		}
		return nil
	}

	root.AddCommand(stateCommand())
	root.AddCommand(sendCommand())
	root.AddCommand(arthashCommand())
	root.AddCommand(lyricsCommand())
	root.AddCommand(watchCommand())
	root.AddCommand(podcastsCommand())
	root.AddCommand(queueCommand())
	root.AddCommand(artCommand())
	return root
}

func fromContext(cmd *cobra.Command) *app {
	val := cmd.Context().Value(appKey{})
	if val == nil {
		return nil
	}
	return val.(*app)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// errNoData is returned when the broker holds nothing under the keys a
// command reads.
var errNoData = errors.New("no data on the broker")
