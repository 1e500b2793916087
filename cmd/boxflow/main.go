// Command boxflow lays out an HTML file and prints the resulting
// fragment geometry, one line per box. It exists for debugging and for
// golden-output comparisons; rendering beyond the debug PNG is out of
// scope.
package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/boxflow/boxflow/box"
	"github.com/boxflow/boxflow/htmltree"
	"github.com/boxflow/boxflow/layout"
	"github.com/boxflow/boxflow/paint"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boxflow",
		Short:         "boxflow lays out HTML into fragment geometry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDumpCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	var (
		width   float64
		height  float64
		pngPath string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Lay out an HTML file and print one line per fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tree, err := htmltree.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			engine := layout.New(
				layout.WithSizer(htmltree.TextSizer{}),
				layout.WithLogger(log),
			)
			space := box.AvailableSpace{
				Width:  box.Definite(width),
				Height: box.Definite(height),
			}
			res, err := engine.Layout(tree, space)
			if err != nil {
				return err
			}
			for _, note := range res.Notes {
				log.Warn("layout note",
					zap.Int("box", int(note.Node)),
					zap.String("note", note.Message))
			}

			fmt.Fprint(cmd.OutOrStdout(), layout.Dump(res.Root))

			if pngPath != "" {
				img := paint.Render(tree, res, int(width), int(height))
				out, err := os.Create(pngPath)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := png.Encode(out, img); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width in px")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height in px")
	cmd.Flags().StringVar(&pngPath, "png", "", "also rasterize to this PNG file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
