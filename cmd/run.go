package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/app"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/confidence"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/orchestrator"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/screens/welcome"
)

// runApp builds the dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := loadDeps(cmd, depsOptions{logFile: true, service: true})
	if err != nil {
		return err
	}
	defer d.Close()

	cfg := d.cfg
	orch := orchestrator.New(orchestrator.Options{
		Service:  d.service,
		Sessions: d.store.SessionRepo(),
		Events:   d.store.EventRepo(),
		Gates:    d.registry,
		CourseID: cfg.Service.CourseID,
		Features: orchestrator.Features{
			PreviewChoice: cfg.Features.PreviewChoice,
			Confidence:    cfg.Features.Confidence,
			MasteryBar:    cfg.Features.MasteryBar,
		},
		Threshold:      cfg.Mastery.Threshold,
		MinAssessments: cfg.Mastery.MinAssessments,
		Scale:          confidence.Scale(cfg.Confidence.Scale),
		Logger:         d.logger,
	})

	opts := app.Options{Orchestrator: orch, Logger: d.logger}
	snap, err := d.lastLearner(cmd.Context())
	if err != nil {
		d.logger.Warn("resume unavailable", "err", err)
	} else if snap != nil && snap.CourseID == cfg.Service.CourseID {
		opts.Returning = &welcome.Returning{LearnerID: snap.LearnerID, Name: snap.Name}
	}

	return app.Run(opts)
}
