// cmd/tools/oracle-draw/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"atlas-oracle/internal/common/config"
	"atlas-oracle/internal/oracle"
	selectoraclecard "atlas-oracle/internal/workers/oracle/select-oracle-card"
	"atlas-oracle/pkg/registry"
)

type drawOptions struct {
	survey      oracle.SurveyInput
	catalogPath string
	explain     bool
	asJSON      bool
}

type drawResult struct {
	Card    oracle.Card  `json:"card"`
	Message string       `json:"message"`
	Trace   *oracle.Draw `json:"trace,omitempty"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oracle-draw",
		Short:         "Draw 3I/Atlas oracle cards from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDrawCmd(), newCardsCmd(), newRegistryCmd())
	return root
}

func newDrawCmd() *cobra.Command {
	var opts drawOptions

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the card for one survey",
		Long: `Draw the card for one survey. Every flag is optional; the same answers
always produce the same card.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDraw(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.survey.Name, "name", "", "name from the survey")
	f.StringVar(&opts.survey.Email, "email", "", "email from the survey")
	f.StringVar(&opts.survey.BirthMonth, "birth-month", "", "birth month, e.g. July or jul")
	f.StringVar(&opts.survey.CurrentFocus, "focus", "", "current focus, free text")
	f.StringVar(&opts.survey.EnergyLevel, "energy", "", "energy level, free text")
	f.StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file (default: built-in catalog)")
	f.BoolVar(&opts.explain, "explain", false, "print how the card was chosen")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

func runDraw(out io.Writer, opts drawOptions) error {
	selector, err := selectoraclecard.LoadSelector(config.OracleConfig{CatalogPath: opts.catalogPath})
	if err != nil {
		return err
	}

	reading := selector.Draw(opts.survey)
	result := drawResult{
		Card:    reading.Card,
		Message: oracle.Personalize(reading, opts.survey),
	}
	if opts.explain {
		result.Trace = &reading.Draw
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, reading.Card.Name)
	if reading.Card.Subtitle != "" {
		fmt.Fprintln(out, reading.Card.Subtitle)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Message)

	if opts.explain {
		d := reading.Draw
		fmt.Fprintln(out)
		fmt.Fprintf(out, "hash:      0x%08x\n", d.Hash)
		fmt.Fprintf(out, "season:    %s\n", d.Season)
		fmt.Fprintf(out, "element:   %s\n", elementLabel(d.Element))
		fmt.Fprintf(out, "energy:    %s\n", d.Tier)
		fmt.Fprintf(out, "focus:     %s\n", d.FocusCategory)
		fmt.Fprintf(out, "shortlist: %s\n", strings.Join(d.Shortlist, ", "))
		fmt.Fprintf(out, "index:     %d\n", d.Index)
		if reading.Fallback {
			fmt.Fprintf(out, "fallback:  %s is not in the catalog\n", d.CardName)
		}
	}
	return nil
}

func elementLabel(e oracle.Element) string {
	if e == oracle.ElementNone {
		return "none"
	}
	return string(e)
}

func newCardsCmd() *cobra.Command {
	var (
		catalogPath string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selector, err := selectoraclecard.LoadSelector(config.OracleConfig{
				CatalogPath:        catalogPath,
				RequireFullCatalog: strict,
			})
			if err != nil {
				return err
			}
			printCards(cmd.OutOrStdout(), selector.Catalog())
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (default: built-in catalog)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when canonical cards are missing")
	return cmd
}

func printCards(out io.Writer, catalog *oracle.Catalog) {
	for _, card := range catalog.Cards() {
		line := fmt.Sprintf("%2d  %s", card.ID, card.Name)
		if card.Element != "" {
			line += fmt.Sprintf(" [%s]", card.Element)
		}
		if card.Subtitle != "" {
			line += "  " + card.Subtitle
		}
		fmt.Fprintln(out, line)
	}
	if missing := catalog.MissingCanonical(); len(missing) > 0 {
		fmt.Fprintf(out, "\nmissing: %s\n", strings.Join(missing, ", "))
	}
}

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Validate an activity registry and list its task types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Default()
			if path != "" {
				var err error
				if reg, err = registry.LoadRegistry(path); err != nil {
					return fmt.Errorf("registry %s: %w", path, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry %s (updated %s)\n", reg.Version, reg.LastUpdated)
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "%-24s %-10s %s\n", a.TaskType, a.ImplementationStatus, a.DisplayName)
				fmt.Fprintf(out, "  errors:    %s\n", strings.Join(a.ErrorCodes, ","))
				if len(a.Workflows) > 0 {
					fmt.Fprintf(out, "  workflows: %s\n", strings.Join(a.Workflows, ","))
				}
				if len(a.Tags) > 0 {
					fmt.Fprintf(out, "  tags:      %s\n", strings.Join(a.Tags, ","))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "registry JSON file (default: built-in registry)")
	return cmd
}
