package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/sentitag/internal/logging"
	"github.com/cognicore/sentitag/internal/server"
	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/config"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/reaction"
	"github.com/cognicore/sentitag/pkg/sentitag/watch"
)

type watchOptions struct {
	html         string
	jsonl        string
	itemAttr     string
	messageClass string
	role         string
	db           string
	interval     time.Duration
	once         bool
	json         bool
	listen       string
	reactionsOut string
}

// eventOutput is one line of `watch --json` output.
type eventOutput struct {
	Index     int                 `json:"index"`
	RecordID  string              `json:"record_id,omitempty"`
	Result    sentitag.Result     `json:"result"`
	Reactions []reaction.Reaction `json:"reactions,omitempty"`
}

func newWatchCmd(g *globalOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a chat transcript and classify each new bot message",
		Example: `  sentitag watch --html saved-chat.html
  sentitag watch --jsonl chat.jsonl --db history.db --json
  sentitag watch --html saved-chat.html --reactions-out reactions.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.apply(cmd.Flags(), g.cfg)
			if err := g.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return opts.run(ctx, g.cfg, cmd.OutOrStdout())
		},
	}

	addWatchFlags(cmd.Flags(), opts)
	return cmd
}

func addWatchFlags(fs *pflag.FlagSet, o *watchOptions) {
	fs.StringVar(&o.html, "html", "", "saved chat page to follow")
	fs.StringVar(&o.jsonl, "jsonl", "", "JSONL transcript to follow")
	fs.StringVar(&o.itemAttr, "item-attr", "", "attribute carrying the message index (html)")
	fs.StringVar(&o.messageClass, "message-class", "", "class of the message text element (html)")
	fs.StringVar(&o.role, "role", "", "only consider transcript messages with this role (jsonl)")
	fs.StringVar(&o.db, "db", "", "sqlite history database (default: in memory)")
	fs.DurationVar(&o.interval, "interval", watch.DefaultInterval, "poll interval")
	fs.BoolVar(&o.once, "once", false, "poll once and exit")
	fs.BoolVar(&o.json, "json", false, "print one JSON object per classified message")
	fs.StringVar(&o.listen, "listen", "", "also serve the HTTP API and /metrics on this address")
	fs.StringVar(&o.reactionsOut, "reactions-out", "", "append fired reactions as JSON lines to this file")
}

// apply copies explicitly set flags over cfg. Choosing a source on the
// command line clears the other source from the config file.
func (o *watchOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("html") {
		cfg.Watch.HTML.Path = o.html
		cfg.Watch.JSONL.Path = ""
	}
	if fs.Changed("jsonl") {
		cfg.Watch.JSONL.Path = o.jsonl
		if !fs.Changed("html") {
			cfg.Watch.HTML.Path = ""
		}
	}
	if fs.Changed("item-attr") {
		cfg.Watch.HTML.ItemAttr = o.itemAttr
	}
	if fs.Changed("message-class") {
		cfg.Watch.HTML.MessageClass = o.messageClass
	}
	if fs.Changed("role") {
		cfg.Watch.JSONL.Role = o.role
	}
	if fs.Changed("db") {
		cfg.Store.Path = o.db
	}
	if fs.Changed("interval") || cfg.Watch.Interval == 0 {
		cfg.Watch.Interval = o.interval
	}
}

func (o *watchOptions) run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	comps, err := cfg.Build(ctx)
	if err != nil {
		return err
	}
	defer comps.Close()

	if comps.Source == nil {
		return fmt.Errorf("%w: no chat source, use --html or --jsonl", internalerr.ErrInvalidConfig)
	}

	logger := logging.WithSource(comps.SourceName)
	sink := reaction.MultiSink{reaction.LogSink{Logger: logger}}
	if o.reactionsOut != "" {
		f, err := os.OpenFile(o.reactionsOut, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open reactions output: %w", err)
		}
		defer f.Close()
		sink = append(sink, reaction.NewWriterSink(f))
	}

	var printErr error
	w, err := watch.New(watch.Options{
		Source:     comps.Source,
		SourceName: comps.SourceName,
		Classifier: comps.Classifier,
		Store:      comps.Store,
		Reactions:  comps.Reactions,
		Sink:       sink,
		Interval:   cfg.Watch.Interval,
		Logger:     logger,
		OnEvent: func(ev watch.Event) {
			if err := o.printEvent(out, ev); err != nil && printErr == nil {
				printErr = err
			}
		},
	})
	if err != nil {
		return err
	}

	if o.once {
		if _, _, err := w.Poll(ctx); err != nil {
			return err
		}
		return printErr
	}

	g, gctx := errgroup.WithContext(ctx)
	if o.listen != "" {
		srv := server.NewServer(server.Options{
			Classifier: comps.Classifier,
			Store:      comps.Store,
			Logger:     logger,
		})
		g.Go(func() error { return serveUntilDone(gctx, srv, o.listen) })
	}
	g.Go(func() error {
		if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return printErr
}

func (o *watchOptions) printEvent(w io.Writer, ev watch.Event) error {
	if o.json {
		return json.NewEncoder(w).Encode(eventOutput{
			Index:     ev.Message.Index,
			RecordID:  ev.RecordID,
			Result:    ev.Result,
			Reactions: ev.Reactions,
		})
	}

	if _, err := fmt.Fprintf(w, "[%d] %s\n", ev.Message.Index, ev.Result); err != nil {
		return err
	}
	for _, r := range ev.Reactions {
		if _, err := fmt.Fprintf(w, "  reaction %s: %s (until %s)\n",
			r.Category, r.ImageURL, r.ExpiresAt.Format(time.Kitchen)); err != nil {
			return err
		}
	}
	return nil
}
