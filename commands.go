package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/engine"
	"github.com/oscremap/pkg/metrics"
	"github.com/oscremap/pkg/status"
	"github.com/oscremap/pkg/watch"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the config and print every route table",
		Long: `Load the config and print each remote with its mappings, filter prefix
and passthrough flag. Exits non-zero when the config could not be loaded and
the fallback table is in effect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger("config")
			if err != nil {
				return err
			}
			model, loadErr := config.LoadFromFile(opts.configPath, log)
			printModel(cmd.OutOrStdout(), model)
			if loadErr != nil {
				return fmt.Errorf("config not loaded: %w", loadErr)
			}
			return nil
		},
	}
}

func newRemapCommand(opts *options) *cobra.Command {
	var (
		addr  string
		value float32
	)

	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Run a single event through the remapper",
		Long: `Run a single address/value event through every route table and print
each outbound event as a JSON line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger("remap")
			if err != nil {
				return err
			}
			model, _ := config.LoadFromFile(opts.configPath, log.Named("config"))
			e := engine.New(log.Named("engine"), model, engine.NewWriterDispatcher(cmd.OutOrStdout()))
			return e.Handle(cmd.Context(), engine.Event{Address: addr, Value: value})
		},
	}

	cmd.Flags().StringVar(&addr, "address", "", "Event address, e.g. /lx/tempo/beat (required)")
	cmd.Flags().Float32Var(&value, "value", 0, "Event value")
	if err := cmd.MarkFlagRequired("address"); err != nil {
		panic(fmt.Sprintf("Failed to mark address as required: %v", err))
	}
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	var (
		watchConfig bool
		statusAddr  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Remap events read from stdin",
		Long: `Read "<address> <value>" lines from stdin and write every outbound event
as a JSON line to stdout until stdin closes or the process is interrupted.
With --watch the config is reloaded whenever the file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runStream(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout(), watchConfig, statusAddr)
		},
	}

	cmd.Flags().BoolVar(&watchConfig, "watch", opts.settings.Watch, "Reload the config when the file changes")
	cmd.Flags().StringVar(&statusAddr, "status-addr", opts.settings.StatusAddr, "Serve /routes, /healthz and /metrics on this address")
	return cmd
}

func runStream(ctx context.Context, opts *options, in io.Reader, out io.Writer, watchConfig bool, statusAddr string) error {
	log, err := opts.logger("main")
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	e := engine.New(log.Named("engine"), config.DefaultModel(), engine.NewWriterDispatcher(out))
	w := watch.New(log.Named("config"), opts.configPath, e, opts.settings.WatchDebounce)
	if err := w.Reload(); err != nil {
		log.Error("Using fallback configuration: %v", err)
	}

	if watchConfig {
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Config watcher stopped: %v", err)
			}
		}()
	}

	if statusAddr != "" {
		srv := status.New(log.Named("status"), e, reg)
		if err := srv.Start(statusAddr); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Warn("Error stopping status server: %v", err)
			}
		}()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	log.Info("Reading events from stdin")
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			ev, err := engine.ParseEvent(line)
			if errors.Is(err, engine.ErrEmptyLine) {
				continue
			}
			if err != nil {
				log.Warn("Skipping line: %v", err)
				continue
			}
			// dispatch failures are logged by the engine
			_ = e.Handle(ctx, ev)
		}
	}
}

func printModel(out io.Writer, model *config.Model) {
	for _, t := range model.Tables() {
		fmt.Fprintf(out, "remote: %s (%s)\n", t.Name(), t.Addr())
		for _, m := range t.Mappings() {
			fmt.Fprintf(out, "  mappings -> %s\n", m)
		}
		fmt.Fprintf(out, "  longest_prefix_filter -> %s\n", t.FilterPrefix())
		fmt.Fprintf(out, "  passthrough -> %t\n", t.IsPassthrough())
	}
}
