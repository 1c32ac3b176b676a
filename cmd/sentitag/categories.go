package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
)

const examplePhrases = 4

func newCategoriesCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List lexicon categories and their phrases",
		Long:  categoriesLong(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := g.cfg.BuildLexicon()
			if err != nil {
				return err
			}

			if asJSON {
				out := make(map[string][]string, lex.Len())
				order := make([]string, 0, lex.Len())
				for _, e := range lex.Entries() {
					out[string(e.Category)] = e.Phrases
					order = append(order, string(e.Category))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Order      []string            `json:"order"`
					Categories map[string][]string `json:"categories"`
				}{order, out})
			}

			rendered, err := renderCategories(lex)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the lexicon as JSON")
	return cmd
}

func categoriesLong() string {
	names := make([]string, 0, len(lexicon.DefaultCategories()))
	for _, c := range lexicon.DefaultCategories() {
		names = append(names, string(c))
	}
	return "List the categories of the active lexicon and their phrases.\n\n" +
		"Built-in categories: " + strings.Join(names, ", ") + ".\n" +
		"Use --lexicon to replace them, or --lexicon with --extend to add to them."
}

func renderCategories(lex *lexicon.Lexicon) (string, error) {
	if lex.Len() == 0 {
		return "No categories defined", nil
	}

	rows := pterm.TableData{{"Category", "Phrases", "Examples"}}
	for _, e := range lex.Entries() {
		examples := e.Phrases
		if len(examples) > examplePhrases {
			examples = examples[:examplePhrases]
		}
		rows = append(rows, []string{
			string(e.Category),
			strconv.Itoa(len(e.Phrases)),
			strings.Join(examples, ", "),
		})
	}

	stats := lex.Stats()
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%d categories, %d phrases (%d multi-word)",
		table, stats.Categories, stats.TotalPhrases, stats.MultiWordPhrases), nil
}
