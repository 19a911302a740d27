package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rule catalog",
	Long: `Rules prints every rule in the built-in catalog: id, severity, the
languages it applies to, and its message. Rules disabled through the
resolved configuration (disabled_rules supports glob patterns like
SEC0*) are excluded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		overridePath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Resolve(ctx, "", overridePath)
		if err != nil {
			presenter.Error(err, "failed to resolve configuration")
			os.Exit(1)
		}

		catalog, err := rules.NewCatalog(cfg.DisabledRules)
		if err != nil {
			presenter.Error(err, "failed to build rule catalog")
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSEVERITY\tCATEGORY\tLANGUAGES\tMESSAGE")
		for _, rule := range catalog.Rules() {
			languages := strings.Join(rule.Languages, ",")
			if languages == "" {
				languages = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rule.ID, rule.Severity, rule.Category, languages, rule.Message)
		}
		w.Flush()

		presenter.Info(fmt.Sprintf("%d rules enabled", catalog.Size()))
	},
}

func init() {
	rulesCmd.Flags().String("config", "", "Path to a configuration document (overrides layered resolution)")
}
