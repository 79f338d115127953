package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/michael-freling/claude-code-quality-gate/internal/generator"
	"github.com/michael-freling/claude-code-quality-gate/internal/rules"
	"github.com/spf13/cobra"
)

func (a *app) newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [file]",
		Short: "List the configured languages, or the rule set applying to a file",
		Long: `Lists every language in the rules directory with its extensions.
Given a file, prints the language its extension resolves to and the rule set as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := a.loadConfig(cmd)
			defer func() {
				_ = logger.Sync()
			}()

			store := rules.NewStore(cfg.RulesDir, rules.NewState(), logger)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintf(out, "Rules directory: %s\n", store.Dir())
				languages := store.Languages()
				if len(languages) == 0 {
					fmt.Fprintln(out, "No languages configured")
					return nil
				}
				for _, language := range languages {
					ruleSet, _ := store.Get(language)
					fmt.Fprintf(out, "  %s: %s\n", language, strings.Join(ruleSet.Extensions, ", "))
				}
				return nil
			}

			ruleSet, language, ok := store.ForFile(args[0])
			if !ok {
				fmt.Fprintf(out, "No rules apply to %s\n", args[0])
				return nil
			}

			data, err := json.MarshalIndent(ruleSet, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode rules of %s: %w", language, err)
			}
			fmt.Fprintf(out, "%s: %s\n%s\n", args[0], language, data)
			return nil
		},
	}

	cmd.AddCommand(a.newRulesInitCmd())
	return cmd
}

func (a *app) newRulesInitCmd() *cobra.Command {
	var dir string
	var languages []string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the bundled rule documents into the rules directory",
		Long:  `Writes the bundled rule documents into the configured rules directory, or into --dir.`,
		Example: `  # Initialize every bundled document in the configured rules directory
  claude-quality-gate rules init

  # Initialize the python rules only, in a custom directory
  claude-quality-gate rules init --dir .claude/rules --languages python

  # Overwrite existing files
  claude-quality-gate rules init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := a.loadConfig(cmd)
			defer func() {
				_ = logger.Sync()
			}()

			target := dir
			if target == "" {
				target = cfg.RulesDir
			}

			written, err := generator.NewGenerator().InitRulesDirectory(target, languages, force)
			if err != nil {
				return fmt.Errorf("failed to initialize rules directory: %w", err)
			}
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default: the configured rules directory)")
	cmd.Flags().StringSliceVar(&languages, "languages", []string{}, "documents to write (default: all bundled documents)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}
