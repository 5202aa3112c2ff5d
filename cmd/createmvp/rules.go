package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"createmvp/internal/catalog"
	"createmvp/internal/install"
	"createmvp/internal/logging"

	"github.com/spf13/cobra"
)

var (
	installTarget string
	installForce  bool
	installDir    string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Install Cursor and Windsurf rules into a project",
}

var rulesInstallCmd = &cobra.Command{
	Use:   "install <id>",
	Short: "Write a rule where your editor picks it up",
	Long: `Write a Cursor or Windsurf rule into the project directory.

Cursor rules default to .cursor/rules/<id>.mdc and Windsurf rules to
.windsurf/rules/<id>.md. Use --target to write the rule for another editor
and --force to replace an existing file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesInstall,
}

var rulesTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the editors a rule can be installed for",
	Args:  cobra.NoArgs,
	RunE:  runRulesTargets,
}

func init() {
	rulesInstallCmd.Flags().StringVarP(&installTarget, "target", "t", "", "Install target (see `createmvp rules targets`)")
	rulesInstallCmd.Flags().BoolVarP(&installForce, "force", "f", false, "Overwrite an existing rule file")
	rulesInstallCmd.Flags().StringVarP(&installDir, "dir", "C", "", "Project directory (default: working directory)")

	rulesCmd.AddCommand(rulesInstallCmd, rulesTargetsCmd)
}

func runRulesInstall(cmd *cobra.Command, args []string) error {
	logger := logging.NewAppLogger()
	_, store, err := openStore(logger)
	if err != nil {
		return err
	}

	r, err := findRecord(store, args[0], "")
	if err != nil {
		return err
	}
	if !r.Kind.IsRules() {
		return fmt.Errorf("%s is in %s; only Cursor and Windsurf rules can be installed", r.ID, r.Kind.Title())
	}

	target := install.DefaultTarget(r.Kind)
	if installTarget != "" {
		if target, err = install.TargetByID(installTarget); err != nil {
			return err
		}
	}

	path, err := install.New(logger).Install(r, target, install.Options{Root: installDir, Force: installForce})
	if errors.Is(err, install.ErrAlreadyExists) {
		return fmt.Errorf("%s already exists; use --force to overwrite it", path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (%s) to %s\n", r.ID, target.Name, path)
	return nil
}

func runRulesTargets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tNAME\tPATH")
	for _, t := range install.Targets {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.FullPath("<id>.md"))
	}
	fmt.Fprintf(w, "\nDefaults: %s -> %s, %s -> %s\n",
		catalog.KindCursorRules, install.DefaultTarget(catalog.KindCursorRules).ID,
		catalog.KindWindsurfRules, install.DefaultTarget(catalog.KindWindsurfRules).ID)
	return w.Flush()
}
