package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the last learner's progress through the course",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		d, err := loadDeps(cmd, depsOptions{logFile: true, service: true})
		if err != nil {
			return err
		}
		defer d.Close()

		snap, err := d.lastLearner(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if snap == nil {
			fmt.Fprintln(out, "No learner has used this client yet.")
			return nil
		}

		prog, err := d.service.Progress(ctx, snap.LearnerID)
		if err != nil {
			return fmt.Errorf("fetch progress: %w", err)
		}
		course, err := d.service.Course(ctx, snap.CourseID)
		if err != nil {
			return fmt.Errorf("fetch course: %w", err)
		}

		fmt.Fprintf(out, "Learner: %s\n", snap.Name)
		title := course.Title
		if title == "" {
			title = course.ID
		}
		fmt.Fprintf(out, "Course:  %s\n", title)
		fmt.Fprintf(out, "Concepts completed: %d of %d\n", prog.ConceptsCompleted, course.ConceptCount())
		fmt.Fprintf(out, "Assessments taken:  %d\n\n", prog.TotalAssessments)

		t := newTable("Module", "Concept", "Status")
		for _, mod := range course.Modules {
			for _, c := range mod.Concepts {
				status := ""
				switch {
				case slices.Contains(prog.CompletedConcepts, c.ID):
					status = "mastered"
				case c.ID == prog.CurrentConcept:
					status = "in progress"
				}
				name := c.Title
				if name == "" {
					name = c.ID
				}
				t.Row(mod.Title, name, status)
			}
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}
