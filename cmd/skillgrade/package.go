package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/packager"
	"github.com/jingkaihe/skillgrade/pkg/presenter"
)

var packageCmd = &cobra.Command{
	Use:   "package <path>",
	Short: "Package a validated skill into a .skill archive",
	Long: `Package validates a skill directory and zips it into a distributable
.skill archive. Validation problems abort packaging. Python bytecode
and __pycache__ directories are excluded from the archive.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		output, _ := cmd.Flags().GetString("output")

		result, err := packager.Package(ctx, args[0], output)
		if err != nil {
			presenter.Error(err, "failed to package skill")
			os.Exit(1)
		}

		for _, name := range result.Files {
			presenter.Info(fmt.Sprintf("  Added: %s", name))
		}
		presenter.Success(fmt.Sprintf("Packaged skill to %s", result.Path))
	},
}

func init() {
	packageCmd.Flags().StringP("output", "o", "", "Output archive path (defaults to <name>.skill in the current directory)")
}
