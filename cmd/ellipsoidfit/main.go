package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ellipsoidfit",
		Short: "Fit bounded ellipsoids to 3D point sets",
		Long: `ellipsoidfit fits an ellipsoid to each given point set by minimizing the
algebraic error of a quadric under an ellipsoid constraint, solved with a
Douglas-Rachford splitting. Point sets are read from YAML or x,y,z text files.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newFitCmd(), newConfigCmd())
	return rootCmd
}

// newLogger builds the stderr text logger, at debug level when verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
