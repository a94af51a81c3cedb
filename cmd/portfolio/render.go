package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/render"
	"github.com/Zachkp/portfolio/internal/view"
)

var (
	renderProfile string
	renderOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the page as static HTML",
	Long:  `Render the page in its initial state to a file (or stdout with --out -).`,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderProfile, "profile", "", "YAML profile (default: built-in profile)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "index.html", "output file, - for stdout")
	rootCmd.AddCommand(renderCmd)
}

// createFile opens the output file; tests replace it.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func runRender(cmd *cobra.Command, _ []string) error {
	p, err := profile.LoadOrDefault(renderProfile)
	if err != nil {
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}

	if renderOut == "-" {
		return r.Page(cmd.OutOrStdout(), p, view.Initial())
	}
	if err := writeFile(renderOut, func(w io.Writer) error {
		return r.Page(w, p, view.Initial())
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", renderOut)
	return nil
}

// writeFile runs write against the named file and reports the Close error
// when write itself succeeded.
func writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := createFile(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()
	return write(f)
}
