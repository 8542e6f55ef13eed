package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/critic"
	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
)

// CriticsCmd groups critic registry operations
var CriticsCmd = &cobra.Command{
	Use:   "critics",
	Short: "Inspect the critic registry",
}

var criticsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List critics loaded from the critic directory",
	RunE:  runCriticsList,
}

var (
	criticsDir      string
	criticsListJSON bool
)

func init() {
	CriticsCmd.PersistentFlags().StringVar(&criticsDir, "critics", "", "Critic directory (overrides config)")
	criticsListCmd.Flags().BoolVarP(&criticsListJSON, "json", "j", false, "Output as JSON")
	CriticsCmd.AddCommand(criticsListCmd)
}

func runCriticsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	dir := cfg.Critics.Dir
	if criticsDir != "" {
		dir = criticsDir
	}

	engine, err := template.NewEngine(template.Config{})
	if err != nil {
		return err
	}

	store, err := critic.NewStore(dir, engine, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to load critics from %s", dir)
	}
	reg := store.Registry()

	if criticsListJSON {
		output, err := json.MarshalIndent(reg.Critics(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	}

	for _, c := range reg.Critics() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s weight=%.1f scale=%g..%g  %s\n",
			c.Name, c.Weight, c.Scale.Min, c.Scale.Max, c.Description)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d critic(s), %d shared partial(s)\n",
		reg.Len(), len(reg.Partials()))
	return nil
}
