package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gofiber/fiber/v3/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wall-elevation/internal/elevation/client"
	"wall-elevation/internal/elevation/interaction"
	"wall-elevation/internal/elevation/models"
)

// ============================================================
// Remote commands
// ============================================================

type fetchOptions struct {
	wall   string
	width  float64
	format string
	out    string
}

// fetchCommand забирает стену с сервера и печатает JSON или рисует ее локально.
func fetchCommand(flags *globalFlags) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a wall from the server and print or render it",
		Long:  `Fetch a wall with its fixtures. Without --wall the sample wall is fetched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := client.New(flags.server)

			wallID, err := resolveWall(ctx, c, opts.wall)
			if err != nil {
				return err
			}
			wall, err := c.GetWallWithFixtures(ctx, wallID)
			if err != nil {
				return err
			}

			if opts.format == "json" {
				data, err := json.MarshalIndent(wall, "", "  ")
				if err != nil {
					return errors.Wrap(err, "encode wall")
				}
				return writeOutput(cmd, opts.out, append(data, '\n'))
			}
			data, err := renderWall(*wall, opts.width, opts.format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.out, data)
		},
	}

	cmd.Flags().StringVar(&opts.wall, "wall", "", "Wall id, the sample wall when empty")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 800, "Canvas width in pixels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json, png, svg")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file, stdout when empty")
	return cmd
}

func moveCommand(flags *globalFlags) *cobra.Command {
	var (
		fixtureID string
		x, y      float64
	)

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Set a fixture position in inches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := models.FixturePatch{}
			if cmd.Flags().Changed("x") {
				patch.PositionX = &x
			}
			if cmd.Flags().Changed("y") {
				patch.PositionY = &y
			}
			if patch.PositionX == nil && patch.PositionY == nil {
				return errors.New("nothing to move: set --x and/or --y")
			}

			f, err := client.New(flags.server).UpdateFixture(cmd.Context(), fixtureID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s moved to (%s\", %s\")\n", f.ID, formatInches(f.PositionX), formatInches(f.PositionY))
			return nil
		},
	}

	cmd.Flags().StringVar(&fixtureID, "fixture", "", "Fixture id")
	cmd.Flags().Float64Var(&x, "x", 0, "Distance from the left wall edge, inches")
	cmd.Flags().Float64Var(&y, "y", 0, "Distance from the floor to the fixture bottom, inches")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

type dragOptions struct {
	wall  string
	from  string
	to    string
	width float64
}

// dragCommand проигрывает перетаскивание через контроллер: нажатие в from,
// движение и отпускание в to (пиксели холста), затем ждет сохранения и сверки.
func dragCommand(flags *globalFlags) *cobra.Command {
	opts := &dragOptions{}

	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Drag a fixture on the canvas and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePoint(opts.from)
			if err != nil {
				return errors.Wrap(err, "--from")
			}
			to, err := parsePoint(opts.to)
			if err != nil {
				return errors.Wrap(err, "--to")
			}

			ctx := cmd.Context()
			c := client.New(flags.server)
			wallID, err := resolveWall(ctx, c, opts.wall)
			if err != nil {
				return err
			}
			wall, err := c.GetWallWithFixtures(ctx, wallID)
			if err != nil {
				return err
			}

			return runDrag(ctx, cmd.OutOrStdout(), c, *wall, opts.width, from, to)
		},
	}

	cmd.Flags().StringVar(&opts.wall, "wall", "", "Wall id, the sample wall when empty")
	cmd.Flags().StringVar(&opts.from, "from", "", "Pointer down position on the canvas, X,Y pixels")
	cmd.Flags().StringVar(&opts.to, "to", "", "Pointer up position on the canvas, X,Y pixels")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 800, "Canvas width in pixels")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

type outcomeLogger struct{}

func (outcomeLogger) SaveCompleted(success bool) {
	log.Debugf("[DRAG] save completed, success=%t", success)
}

func (outcomeLogger) Reconciled(outcome interaction.Outcome) {
	log.Infof("[DRAG] reconciled: %s", outcome)
}

func runDrag(ctx context.Context, w io.Writer, p interaction.Persistence, wall models.WallWithFixtures, width float64, from, to interaction.PointerEvent) error {
	ctrl := interaction.NewController(wall, width, p, interaction.WithObserver(outcomeLogger{}))

	if !ctrl.PointerDown(from) {
		return errors.Errorf("no fixture at (%g, %g)", from.X, from.Y)
	}
	ctrl.PointerMove(to)
	ctrl.PointerUp(ctx, to)
	ctrl.Wait()

	return printFixtures(w, ctrl.VisibleWall())
}

func printFixtures(w io.Writer, wall models.WallWithFixtures) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tX\tY")
	for _, f := range wall.Fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%s\"\t%s\"\n", f.ID, f.Type, formatInches(f.PositionX), formatInches(f.PositionY))
	}
	return tw.Flush()
}

func resolveWall(ctx context.Context, c *client.Client, wallID string) (string, error) {
	if wallID != "" {
		return wallID, nil
	}
	return c.SampleWallID(ctx)
}

// parsePoint разбирает "X,Y" в координаты холста.
func parsePoint(s string) (interaction.PointerEvent, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return interaction.PointerEvent{}, errors.Errorf("expected X,Y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return interaction.PointerEvent{}, errors.Wrapf(err, "parse x %q", xs)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return interaction.PointerEvent{}, errors.Wrapf(err, "parse y %q", ys)
	}
	return interaction.PointerEvent{X: x, Y: y}, nil
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
