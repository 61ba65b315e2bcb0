package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Inspect required materials",
}

var materialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the materials of every module in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, depsOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		course, ok := d.registry.Manifest().Course(d.cfg.Service.CourseID)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No materials configured for course %s.\n", d.cfg.Service.CourseID)
			return nil
		}

		t := newTable("Module", "Material", "Type", "Requirement", "Verification")
		for _, mod := range course.Modules {
			for _, m := range mod.Materials {
				t.Row(mod.ID, m.Title, string(m.Type), string(m.Requirement), string(m.Verification.Method))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var materialsStatusCmd = &cobra.Command{
	Use:   "status [module]",
	Short: "Show the last learner's material completion for a module",
	Long:  "Show which materials the most recent learner has completed. Without a module argument the learner's current module is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := loadDeps(cmd, depsOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		snap, err := d.lastLearner(ctx)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No learner has used this client yet.")
			return nil
		}

		moduleID := snap.CurrentModuleID
		if len(args) == 1 {
			moduleID = args[0]
		}
		if moduleID == "" {
			return fmt.Errorf("learner %s has not entered a module yet; name one", snap.Name)
		}

		gate := d.registry.Gate(snap.LearnerID, snap.CourseID, moduleID)
		statuses, err := gate.Status(ctx)
		if err != nil {
			return fmt.Errorf("load completions: %w", err)
		}
		unlocked, err := gate.IsUnlocked(ctx)
		if err != nil {
			return fmt.Errorf("check gate: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Learner: %s\nModule:  %s\n\n", snap.Name, moduleID)
		if len(statuses) == 0 {
			fmt.Fprintln(out, "This module has no materials.")
			return nil
		}
		t := newTable("Material", "Requirement", "Status")
		for _, st := range statuses {
			t.Row(st.Material.Title, string(st.Material.Requirement), string(st.State()))
		}
		fmt.Fprintln(out, t.String())
		if unlocked {
			fmt.Fprintln(out, "Module unlocked.")
		} else {
			fmt.Fprintln(out, "Module locked until every required material is complete.")
		}
		return nil
	},
}

func init() {
	materialsCmd.AddCommand(materialsListCmd)
	materialsCmd.AddCommand(materialsStatusCmd)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.Bold(true)
			}
			return st
		})
}
