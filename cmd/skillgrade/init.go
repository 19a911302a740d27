package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgrade/pkg/presenter"
	"github.com/jingkaihe/skillgrade/pkg/scaffold"
)

// InitConfig holds configuration for the init command
type InitConfig struct {
	Type string
	Dir  string
}

// NewInitConfig creates a new InitConfig with default values
func NewInitConfig() *InitConfig {
	return &InitConfig{
		Dir: ".",
	}
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new skill directory from a template",
	Long: `Init creates a skill directory named after the skill, with a templated
SKILL.md, an example helper script, a references folder, and an empty
assets folder. The --type flag selects a specialized template.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getInitConfigFromFlags(cmd)

		dir, err := scaffold.Create(args[0], scaffold.Options{
			Type: config.Type,
			Dir:  config.Dir,
		})
		if err != nil {
			presenter.Error(err, "failed to initialize skill")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Skill %q initialized at %s", args[0], dir))
		presenter.Info("Next steps:")
		presenter.Info("  1. Edit SKILL.md: complete TODO items and update the description")
		presenter.Info("  2. Customize or delete the example files in scripts/ and references/")
		presenter.Info(fmt.Sprintf("  3. Run: skillgrade validate %s", dir))
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().String("type", defaults.Type, "Skill template type ("+strings.Join(scaffold.Types, ", ")+")")
	initCmd.Flags().String("dir", defaults.Dir, "Parent directory for the new skill")
}

// getInitConfigFromFlags extracts init configuration from command flags
func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()

	if skillType, err := cmd.Flags().GetString("type"); err == nil {
		config.Type = skillType
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}

	return config
}
