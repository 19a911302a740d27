package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/report"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of evaluation reports",
	Long: `Schema prints the JSON schema describing the report produced by
"skillgrade evaluate --format json", for consumers that validate or
generate bindings from it.`,
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := report.Schema()
		if err != nil {
			presenter.Error(err, "failed to generate schema")
			os.Exit(1)
		}
		fmt.Println(string(schema))
	},
}
