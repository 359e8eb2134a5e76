package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/logger"
	"github.com/goflowspace/linksnap/internal/service"
	"github.com/goflowspace/linksnap/internal/settings"
	"github.com/goflowspace/linksnap/internal/snap"
	"github.com/goflowspace/linksnap/internal/store"
	"github.com/goflowspace/linksnap/internal/ui"
)

func simulateCmd() *cobra.Command {
	var (
		nodeID   string
		toFlag   string
		fromFlag string
		steps    int
		throttle int
		noSnap   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <canvas-file>",
		Short: "Replay a drag gesture and show what the engine does",
		Long: "Loads a canvas document, walks a node along a straight line in the\n" +
			"given number of move events, and prints the preview lifecycle per tick\n" +
			"plus whatever the drop commits.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := loadCanvas(args[0])
			if err != nil {
				return err
			}
			if err := canvas.Validate(); err != nil {
				return fmt.Errorf("invalid canvas document: %w", err)
			}

			log := zerolog.Nop()
			if verbose {
				if log, err = logger.New("debug", "console"); err != nil {
					return err
				}
			}

			st := store.NewMemory()
			st.LoadCanvas(canvas)

			snapshot := st.Snapshot()
			node, ok := snapshot.Node(nodeID)
			if !ok {
				return fmt.Errorf("node %s not in canvas", nodeID)
			}

			to, err := parsePoint(toFlag)
			if err != nil {
				return err
			}
			from := node.Position
			if fromFlag != "" {
				if from, err = parsePoint(fromFlag); err != nil {
					return err
				}
				st.MoveNode(nodeID, from.X, from.Y)
			}

			eds := domain.DefaultEditorSettings()
			if noSnap {
				eds.LinkSnappingEnabled = false
			}
			prov := settings.NewStatic(eds)
			bus := service.NewEventBus()
			svc := service.NewCanvasService(st, nil, prov, bus, log)

			cfg := snap.DefaultConfig()
			cfg.ThrottleFactor = throttle
			engine := snap.NewEngine(cfg, snap.Deps{
				Store:     svc,
				Settings:  prov,
				Pins:      st,
				Connector: svc,
				Logger:    log,
			})

			ui.Brand.Println("linksnap simulate")
			fmt.Printf("  dragging %s from (%.0f,%.0f) to (%.0f,%.0f) in %d steps\n\n",
				nodeID, from.X, from.Y, to.X, to.Y, steps)

			var last *domain.Edge
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				x := from.X + (to.X-from.X)*t
				y := from.Y + (to.Y-from.Y)*t
				if err := svc.MoveNode(nodeID, x, y); err != nil {
					return err
				}
				engine.OnDragMove(nodeID)

				pv := previewIn(svc.Snapshot().Edges)
				switch {
				case pv != nil && (last == nil || last.ID != pv.ID):
					ui.Good.Printf("  tick %2d  (%6.0f,%6.0f)  preview %s -> %s\n", i, x, y, pv.Source, pv.Target)
				case pv == nil && last != nil:
					ui.Warn.Printf("  tick %2d  (%6.0f,%6.0f)  preview cleared\n", i, x, y)
				default:
					ui.Subtle.Printf("  tick %2d  (%6.0f,%6.0f)\n", i, x, y)
				}
				last = pv
			}

			before := permanentIDs(svc.Snapshot().Edges)
			engine.OnDragStop()

			fmt.Println()
			committed := false
			for _, e := range svc.Snapshot().Edges {
				if e.IsPreview() || before[e.ID] {
					continue
				}
				ui.Good.Printf("  %s committed %s -> %s (%s)\n", ui.StatusIcon(true), e.Source, e.Target, e.ID)
				committed = true
			}
			if !committed {
				ui.Warn.Println("  no link committed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "node to drag (required)")
	cmd.Flags().StringVar(&toFlag, "to", "", "drop position as x,y (required)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "start position as x,y (defaults to the node's position)")
	cmd.Flags().IntVar(&steps, "steps", 20, "move events along the path")
	cmd.Flags().IntVar(&throttle, "throttle", 1, "resolve every Nth tick")
	cmd.Flags().BoolVar(&noSnap, "no-snapping", false, "run with link snapping disabled")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "engine debug logging")
	cmd.MarkFlagRequired("node")
	cmd.MarkFlagRequired("to")

	return cmd
}

func previewIn(edges []domain.Edge) *domain.Edge {
	for i := range edges {
		if edges[i].IsPreview() {
			return &edges[i]
		}
	}
	return nil
}

func permanentIDs(edges []domain.Edge) map[string]bool {
	ids := make(map[string]bool, len(edges))
	for _, e := range edges {
		if !e.IsPreview() {
			ids[e.ID] = true
		}
	}
	return ids
}
