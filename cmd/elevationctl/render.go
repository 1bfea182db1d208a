package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/render"
	"wall-elevation/internal/elevation/scale"
)

type renderOptions struct {
	wallFile string
	width    float64
	format   string
	out      string
}

// renderCommand рисует стену из JSON файла (формат GET /walls/:id) без сервера.
func renderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a wall elevation to PNG or SVG",
		Long:  `Render a wall with its fixtures, read from a JSON file or "-" for stdin.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wall, err := readWall(cmd.InOrStdin(), opts.wallFile)
			if err != nil {
				return err
			}
			data, err := renderWall(*wall, opts.width, opts.format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.out, data)
		},
	}

	cmd.Flags().StringVar(&opts.wallFile, "wall-file", "-", "Wall JSON file, \"-\" for stdin")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 800, "Canvas width in pixels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "png", "Output format: png, svg")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file, stdout when empty")

	return cmd
}

func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

func readWall(stdin io.Reader, path string) (*models.WallWithFixtures, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open wall file")
		}
		defer f.Close()
		r = f
	}

	var wall models.WallWithFixtures
	if err := json.NewDecoder(r).Decode(&wall); err != nil {
		return nil, errors.Wrap(err, "decode wall")
	}
	return &wall, nil
}

func renderWall(wall models.WallWithFixtures, width float64, format string) ([]byte, error) {
	if width <= 0 {
		return nil, errors.Errorf("width must be positive, got %g", width)
	}

	switch format {
	case "png":
		data, _, err := render.RenderPNG(wall, width)
		return data, err
	case "svg":
		if err := wall.Validate(); err != nil {
			return nil, err
		}
		dims := scale.CalculateCanvasDimensions(wall.Wall, width)
		return []byte(render.GenerateElevationSVG(wall, dims)), nil
	}
	return nil, errors.Errorf("unknown format %q", format)
}
