package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

const historyTextWidth = 48

type historyOptions struct {
	db    string
	limit int
	json  bool
}

type historyRecord struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	MessageIndex int                `json:"message_index"`
	Text         string             `json:"text"`
	Categories   []lexicon.Category `json:"categories"`
	Neutral      bool               `json:"neutral"`
	ClassifiedAt time.Time          `json:"classified_at"`
}

type historyOutput struct {
	Records    []historyRecord            `json:"records"`
	Total      int64                      `json:"total"`
	Neutral    int64                      `json:"neutral"`
	ByCategory map[lexicon.Category]int64 `json:"by_category"`
}

func newHistoryCmd(g *globalOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently classified messages and category totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				g.cfg.Store.Path = opts.db
			}
			if g.cfg.Store.Path == "" {
				return fmt.Errorf("%w: history needs a database, use --db", internalerr.ErrInvalidConfig)
			}

			ctx := cmd.Context()
			st, err := g.cfg.BuildStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.Recent(ctx, opts.limit)
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}
			counts, err := st.Counts(ctx)
			if err != nil {
				return fmt.Errorf("count records: %w", err)
			}

			if opts.json {
				return writeHistoryJSON(cmd.OutOrStdout(), recs, counts)
			}
			return writeHistoryTable(cmd.OutOrStdout(), recs, counts)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "sqlite history database")
	cmd.Flags().IntVar(&opts.limit, "limit", store.DefaultRecentLimit, "number of records to show")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print history as JSON")
	return cmd
}

func writeHistoryJSON(w io.Writer, recs []store.Record, counts store.Counts) error {
	out := historyOutput{
		Records:    make([]historyRecord, 0, len(recs)),
		Total:      counts.Total,
		Neutral:    counts.Neutral,
		ByCategory: counts.ByCategory,
	}
	for _, r := range recs {
		out.Records = append(out.Records, historyRecord(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeHistoryTable(w io.Writer, recs []store.Record, counts store.Counts) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	rows := pterm.TableData{{"Classified", "Source", "Index", "Sentiments", "Text"}}
	for _, r := range recs {
		sentiments := lexicon.NeutralLabel
		if !r.Neutral {
			names := make([]string, len(r.Categories))
			for i, c := range r.Categories {
				names[i] = string(c)
			}
			sentiments = strings.Join(names, ", ")
		}
		rows = append(rows, []string{
			r.ClassifiedAt.Local().Format(time.DateTime),
			r.Source,
			strconv.Itoa(r.MessageIndex),
			sentiments,
			truncate(r.Text, historyTextWidth),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, summarizeCounts(counts))
	return err
}

// summarizeCounts renders totals with categories by descending hit count.
func summarizeCounts(c store.Counts) string {
	cats := make([]lexicon.Category, 0, len(c.ByCategory))
	for cat := range c.ByCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if c.ByCategory[cats[i]] != c.ByCategory[cats[j]] {
			return c.ByCategory[cats[i]] > c.ByCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})

	parts := make([]string, len(cats))
	for i, cat := range cats {
		parts[i] = fmt.Sprintf("%s=%d", cat, c.ByCategory[cat])
	}

	line := fmt.Sprintf("%d records, %d neutral", c.Total, c.Neutral)
	if len(parts) > 0 {
		line += ": " + strings.Join(parts, " ")
	}
	return line
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
