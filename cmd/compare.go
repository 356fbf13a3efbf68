package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/panediff/internal/config"
	"github.com/zjrosen/panediff/internal/diffview"
	"github.com/zjrosen/panediff/internal/history"
	"github.com/zjrosen/panediff/internal/log"
	"github.com/zjrosen/panediff/internal/tracing"
	"github.com/zjrosen/panediff/internal/ui/compareview"
	"github.com/zjrosen/panediff/internal/ui/pane"
	"github.com/zjrosen/panediff/internal/watcher"
)

// shutdownTimeout bounds flushing traces on exit.
const shutdownTimeout = 5 * time.Second

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var db *history.DB
	if cfg.History.Enabled {
		var err error
		db, err = history.NewDB(cfg.History.Path)
		if err != nil {
			// History is optional; the comparison still runs.
			log.ErrorErr(log.CatHistory, "opening history failed", err, "path", cfg.History.Path)
		} else {
			defer func() { _ = db.Close() }()
		}
	}

	if last, _ := cmd.Flags().GetBool("last"); last {
		if db == nil {
			return errors.New("--last needs history enabled")
		}
		entry, err := db.Store().Latest(ctx)
		if errors.Is(err, history.ErrNotFound) {
			return errors.New("no previous comparison to reopen")
		}
		if err != nil {
			return err
		}
		args = []string{entry.LeftPath, entry.RightPath}
	}

	loader, err := newInputLoader(args[0], args[1], os.Stdin)
	if err != nil {
		return err
	}
	in, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(sctx); err != nil {
			log.ErrorErr(log.CatTrace, "flushing traces failed", err)
		}
	}()

	opts := []compareview.Option{
		compareview.WithDiffer(buildDiffer(cfg, provider)),
		compareview.WithTabWidth(cfg.UI.TabWidth),
		compareview.WithPaneOptions(pane.WithGutter(cfg.UI.Gutter), pane.WithScrollbar(cfg.UI.Scrollbar)),
		compareview.WithFont(compareview.Font{Family: cfg.UI.FontFamily, Size: cfg.UI.FontSize}),
		compareview.WithStandalone(),
		compareview.WithLoader(loader.Load),
	}
	if db != nil {
		opts = append(opts, compareview.WithOnClose(recorder(ctx, db.Store(), loader, cfg, time.Now())))
	}

	if cfg.Watch.Enabled {
		paths := loader.watchPaths()
		if len(paths) == 0 {
			log.Warn(log.CatWatcher, "nothing to watch, both sides are stdin")
		} else {
			w, err := watcher.New(watcher.Config{Paths: paths, DebounceDur: cfg.Watch.Debounce})
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			if err := w.Start(); err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer func() { _ = w.Stop() }()
			opts = append(opts, compareview.WithWatcher(w.Broker()))
		}
	}

	model := openSession(ctx, provider, in, opts)

	zone.NewGlobal()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openSession builds the view under a session span.
func openSession(ctx context.Context, provider *tracing.Provider, in diffview.Input, opts []compareview.Option) compareview.Model {
	spanCtx, span := provider.Tracer().Start(ctx, tracing.SpanSessionOpen)
	defer span.End()

	opts = append(opts[:len(opts):len(opts)], compareview.WithOpenContext(spanCtx))
	model := compareview.New(ctx, in, opts...)
	ctrl := model.Controller()
	span.SetAttributes(
		attribute.String(tracing.AttrLeftName, in.Left.DisplayName),
		attribute.String(tracing.AttrRightName, in.Right.DisplayName),
		attribute.Int(tracing.AttrChanged, len(ctrl.ChangedLines())),
	)
	if err := model.Err(); err != nil {
		span.RecordError(err)
	}
	return model
}

// buildDiffer stacks the line differ with the cache and tracing layers the
// config enables. Tracing wraps the cache so hits show up as short spans.
func buildDiffer(c config.Config, provider *tracing.Provider) diffview.Differ {
	var d diffview.Differ = &diffview.LineDiffer{WordDiff: c.UI.WordDiff}
	if c.Cache.Enabled {
		d = diffview.NewCachedDiffer(d, c.Cache.TTL)
	}
	if provider != nil && provider.Enabled() {
		d = diffview.NewTracedDiffer(d, provider.Tracer())
	}
	return d
}

func tracingConfig(t config.TracingConfig) tracing.Config {
	tc := tracing.DefaultConfig()
	tc.Enabled = t.Enabled
	tc.Exporter = t.Exporter
	tc.FilePath = t.FilePath
	tc.OTLPEndpoint = t.OTLPEndpoint
	tc.SampleRate = t.SampleRate
	return tc
}

// recorder stores each closed comparison and prunes old entries.
func recorder(ctx context.Context, store *history.Store, loader *inputLoader, c config.Config, openedAt time.Time) func(compareview.Closed) {
	return func(closed compareview.Closed) {
		_, err := store.Record(ctx, history.Entry{
			LeftPath:  loader.left.path,
			RightPath: loader.right.path,
			LeftName:  closed.Input.Left.DisplayName,
			RightName: closed.Input.Right.DisplayName,
			Inserted:  closed.Summary.Inserted,
			Deleted:   closed.Summary.Deleted,
			Modified:  closed.Summary.Modified,
			Changed:   closed.Changed,
			Failed:    closed.Failed,
			Watched:   c.Watch.Enabled,
			OpenedAt:  openedAt,
		})
		if err != nil {
			log.ErrorErr(log.CatHistory, "recording comparison failed", err)
			return
		}
		if c.History.MaxEntries > 0 {
			if _, err := store.Prune(ctx, c.History.MaxEntries); err != nil {
				log.ErrorErr(log.CatHistory, "pruning history failed", err)
			}
		}
	}
}
