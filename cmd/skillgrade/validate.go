package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a skill's structure and frontmatter",
	Long: `Validate checks a skill directory against the publishing conventions:
allowed frontmatter keys, hyphen-case naming, description limits, and
unresolved TODO placeholders. It exits 1 when any problem is found,
making it usable as a CI gate.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sk, err := skill.Load(ctx, args[0])
		if err != nil {
			presenter.Error(err, "failed to load skill")
			os.Exit(1)
		}

		problems := skill.Validate(sk)
		if len(problems) == 0 {
			presenter.Success(fmt.Sprintf("Skill %s is valid", args[0]))
			return
		}

		presenter.Warning(fmt.Sprintf("Skill %s has %d problem(s):", args[0], len(problems)))
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	},
}
