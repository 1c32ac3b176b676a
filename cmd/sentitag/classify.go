package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

type classifyOptions struct {
	explain bool
	json    bool
	db      string
}

// classifyOutput is one line of `classify --json` output.
type classifyOutput struct {
	Text    string           `json:"text"`
	Result  sentitag.Result  `json:"result"`
	Matches []sentitag.Match `json:"matches,omitempty"`
}

func newClassifyCmd(g *globalOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text given as arguments, or each line of stdin",
		Example: `  sentitag classify "I'm on cloud nine today"
  cat chat.txt | sentitag classify --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := g.cfg.BuildLexicon()
			if err != nil {
				return err
			}
			c := sentitag.New(lex)

			var st store.Store
			if opts.db != "" {
				g.cfg.Store.Path = opts.db
				if st, err = g.cfg.BuildStore(cmd.Context()); err != nil {
					return err
				}
				defer st.Close()
			}

			if len(args) > 0 {
				text := strings.Join(args, " ")
				res, err := opts.print(cmd.OutOrStdout(), c, text)
				if err != nil {
					return err
				}
				return record(cmd.Context(), st, "args", 0, text, res)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				res, err := opts.print(cmd.OutOrStdout(), c, line)
				if err != nil {
					return err
				}
				if err := record(cmd.Context(), st, "stdin", lineNo, line, res); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&opts.explain, "explain", false, "show which phrases matched")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print one JSON object per input")
	cmd.Flags().StringVar(&opts.db, "db", "", "also record results in this sqlite history database")
	return cmd
}

func (o *classifyOptions) print(w io.Writer, c *sentitag.Classifier, text string) (sentitag.Result, error) {
	res := c.Classify(text)

	var matches []sentitag.Match
	if o.explain {
		matches = c.Explain(text)
	}

	if o.json {
		return res, json.NewEncoder(w).Encode(classifyOutput{Text: text, Result: res, Matches: matches})
	}

	if _, err := fmt.Fprintln(w, res.String()); err != nil {
		return res, err
	}
	for _, m := range matches {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", m.Category, strings.Join(m.Phrases, ", ")); err != nil {
			return res, err
		}
	}
	return res, nil
}

// record saves res when a store is configured. st may be nil.
func record(ctx context.Context, st store.Store, source string, index int, text string, res sentitag.Result) error {
	if st == nil {
		return nil
	}
	now := time.Now()
	return st.Save(ctx, store.Record{
		ID:           store.NewID(now),
		Source:       source,
		MessageIndex: index,
		Text:         text,
		Categories:   res.Categories(),
		Neutral:      res.IsNeutral(),
		ClassifiedAt: now,
	})
}
