package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// benchResult holds averaged frame times of a bench run.
type benchResult struct {
	Frames    int
	Nodes     int
	Update    time.Duration
	Render    time.Duration
	Layouts   int // flex roots laid out in the last frame
	Batches   int
	Drawables int
}

// benchCommand creates the bench command for timing a generated flex grid.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		cols, rows int
		frames     int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure frame times of a generated flex grid",
		Long: `Build a wrapping flex grid of cols x rows cells and run frames in which
one cell is resized and the grid is re-laid out, reporting average update and
render times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cols < 1 || rows < 1 || frames < 1 {
				return fmt.Errorf("cols, rows and frames must be >= 1")
			}
			cfg, err := c.stageConfig()
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			res, err := runBench(cfg, cols, rows, frames)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Ran %d frames", frames))

			printTitle(c.Out, "Bench")
			printStat(c.Out, "nodes", res.Nodes)
			printStat(c.Out, "frames", res.Frames)
			printStat(c.Out, "update avg", res.Update)
			printStat(c.Out, "render avg", res.Render)
			printStat(c.Out, "layouts", res.Layouts)
			printStat(c.Out, "batches", res.Batches)
			printStat(c.Out, "drawables", res.Drawables)
			printSuccess(c.Out, "done")
			return nil
		},
	}

	cmd.Flags().IntVar(&cols, "cols", 40, "grid columns")
	cmd.Flags().IntVar(&rows, "rows", 40, "grid rows")
	cmd.Flags().IntVarP(&frames, "frames", "n", 120, "frames to run")

	return cmd
}

// runBench times frames on a generated grid. Each frame resizes one cell so
// the grid is laid out again.
func runBench(cfg canopy.Config, cols, rows, frames int) (benchResult, error) {
	s := canopy.NewStage(cfg, canopy.NewRecordingRenderer())
	defer s.Close()
	cells, err := buildGrid(s, cols, rows)
	if err != nil {
		return benchResult{}, err
	}
	s.Frame(0)

	var update, render time.Duration
	for i := range frames {
		c := cells[i%len(cells)]
		w := c.Width().Resolve(0)
		c.SetWidth(canopy.Fixed(w + float64(i%2*2-1)))

		t0 := time.Now()
		s.Update(1.0 / 60)
		t1 := time.Now()
		s.Render()
		update += t1.Sub(t0)
		render += time.Since(t1)
	}

	st := s.Stats()
	return benchResult{
		Frames:    frames,
		Nodes:     len(cells) + 2,
		Update:    update / time.Duration(frames),
		Render:    render / time.Duration(frames),
		Layouts:   st.Layouts,
		Batches:   st.Batches,
		Drawables: st.Drawables,
	}, nil
}
