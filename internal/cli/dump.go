package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// dumpCommand creates the dump command for printing the batches of the demo
// scene.
func (c *CLI) dumpCommand() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the draw batches of the demo scene",
		Long: `Build the demo scene, run the given number of frames and print the
batches submitted to the renderer in the last one, with frame statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("frames must be >= 1, got %d", frames)
			}
			cfg, err := c.stageConfig()
			if err != nil {
				return err
			}
			return c.runDump(cfg, frames)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "frames to run before dumping")

	return cmd
}

func (c *CLI) runDump(cfg canopy.Config, frames int) error {
	rec := canopy.NewRecordingRenderer()
	s := canopy.NewStage(cfg, rec)
	defer s.Close()
	if err := buildDemo(s); err != nil {
		return fmt.Errorf("build demo scene: %w", err)
	}
	for range frames {
		s.Frame(1.0 / 60)
	}
	c.Logger.Debug("rendered", "frames", frames, "batches", len(rec.Batches))

	printTitle(c.Out, "Batches")
	fmt.Fprint(c.Out, StyleValue.Render(rec.String()))
	fmt.Fprintln(c.Out)

	st := s.Stats()
	printTitle(c.Out, "Frame")
	printStat(c.Out, "frame", st.Frame)
	printStat(c.Out, "visited", st.Visited)
	printStat(c.Out, "layouts", st.Layouts)
	printStat(c.Out, "batches", st.Batches)
	printStat(c.Out, "drawables", st.Drawables)
	printStat(c.Out, "offscreen rebuilds", st.OffscreenRebuilds)
	printStat(c.Out, "offscreen reuses", st.OffscreenReuses)
	printStat(c.Out, "live targets", st.LiveTargets)
	return nil
}
