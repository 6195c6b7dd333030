package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/hares/internal/events"
	"github.com/taigrr/hares/internal/logging"
	"github.com/taigrr/hares/internal/viewport"
	"github.com/taigrr/hares/pkg/models"
	"github.com/taigrr/hares/pkg/scene"
)

// headless mounts an offscreen host and waits for its scene to be built.
// The caller must Unmount the host.
func (a *app) headless(ctx context.Context, width, height int) (*viewport.Host, *viewport.Offscreen, *zap.Logger, error) {
	log, err := logging.New(logging.Console, a.cfg.Log.Level, "")
	if err != nil {
		return nil, nil, nil, err
	}
	host, err := a.newHost(log)
	if err != nil {
		return nil, nil, nil, err
	}
	off := viewport.NewOffscreen(width, height)
	if err := host.Mount(ctx, off); err != nil {
		return nil, nil, nil, fmt.Errorf("mount: %w", err)
	}
	if err := host.AwaitFont(ctx); err != nil {
		_ = host.Unmount()
		return nil, nil, nil, fmt.Errorf("load font: %w", err)
	}
	return host, off, log, nil
}

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		out           string
		frames        int
		keys          string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the scene offscreen and save it as PNG",
		Long: `Render the scene offscreen and save the last frame as PNG.

Keys are replayed in order before the first frame, so --keys wwd moves the
cube up twice and the camera right once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, off, log, err := a.headless(cmd.Context(), width, height)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer host.Unmount()

			for _, k := range keys {
				if err := host.Dispatch(events.KeyDown{Key: string(k)}); err != nil {
					return err
				}
			}
			for range max(frames, 1) {
				if err := host.Frame(); err != nil {
					return fmt.Errorf("render frame: %w", err)
				}
			}
			if err := off.Frame().SavePNG(out); err != nil {
				return err
			}
			log.Info("snapshot saved", zap.String("path", out), zap.Int("frames", off.Presents()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "scene.png", "Output PNG path")
	cmd.Flags().IntVar(&frames, "frames", 1, "Frames to render")
	cmd.Flags().StringVar(&keys, "keys", "", "Keys to replay (w, s, a, d)")
	cmd.Flags().IntVar(&width, "width", 320, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 180, "Image height in pixels")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the scene meshes as a GLB file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, _, log, err := a.headless(cmd.Context(), 1, 1)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer host.Unmount()

			nodes := exportNodes(host.Scene())
			if err := models.SaveGLB(out, nodes); err != nil {
				return err
			}
			log.Info("scene exported", zap.String("path", out), zap.Int("meshes", len(nodes)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "scene.glb", "Output GLB path")
	return cmd
}

// exportNodes converts the scene's meshes. Lines and lights have no glTF mesh form.
func exportNodes(s *scene.Scene) []models.ExportNode {
	var nodes []models.ExportNode
	for _, m := range s.Meshes() {
		nodes = append(nodes, models.ExportNode{
			Name:        m.Label(),
			Mesh:        m.Geometry,
			Translation: m.Position,
			Material:    exportMaterial(m.Label(), m.Material),
		})
	}
	return nodes
}

func exportMaterial(name string, m scene.Material) models.Material {
	c := func(v uint8) float64 { return float64(v) / 255 }
	out := models.Material{
		Name:      name,
		BaseColor: [4]float64{c(m.Color.R), c(m.Color.G), c(m.Color.B), 1},
	}
	if m.Shading == scene.Standard {
		k := m.EmissiveIntensity
		out.Emissive = [3]float64{c(m.Emissive.R) * k, c(m.Emissive.G) * k, c(m.Emissive.B) * k}
	}
	return out
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the scene's objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, _, log, err := a.headless(cmd.Context(), 1, 1)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer host.Unmount()

			return writeInfo(cmd.OutOrStdout(), a.cfg.Variant, host.Scene())
		},
	}
}

func writeInfo(w io.Writer, variant string, s *scene.Scene) error {
	fmt.Fprintf(w, "Variant:    %s\n", variant)
	fmt.Fprintf(w, "Objects:    %d\n\n", s.Len())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tTRIANGLES\tPOSITION")
	total := 0
	for _, n := range s.Children() {
		kind, tris, pos := describe(n)
		total += tris
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", kind, n.Label(), tris, pos)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTriangles:  %d\n", total)
	return err
}

func describe(n scene.Node) (kind string, triangles int, position string) {
	vec := func(x, y, z float64) string { return fmt.Sprintf("(%.2f, %.2f, %.2f)", x, y, z) }
	switch v := n.(type) {
	case *scene.Mesh:
		kind = "mesh"
		if v.Material.Wireframe {
			kind = "wireframe mesh"
		}
		if v.Geometry != nil {
			triangles = v.Geometry.TriangleCount()
		}
		return kind, triangles, vec(v.Position.X, v.Position.Y, v.Position.Z)
	case *scene.Lines:
		return fmt.Sprintf("lines[%d]", len(v.Segments)), 0, vec(v.Position.X, v.Position.Y, v.Position.Z)
	case *scene.PointLight:
		return "point light", 0, vec(v.Position.X, v.Position.Y, v.Position.Z)
	case *scene.AmbientLight:
		return "ambient light", 0, "-"
	}
	return strings.ToLower(fmt.Sprintf("%T", n)), 0, "-"
}
