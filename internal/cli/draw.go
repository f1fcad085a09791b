package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-fasttrack/pkg/pipeline/drawer"
	"github.com/askiada/go-fasttrack/pkg/pipeline/measure"
	"github.com/askiada/go-fasttrack/pkg/tracking"
)

func drawCmd(opts *rootOptions) *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:   "draw [steps...]",
		Short: "Write one DOT graph per step, labelled with the build metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts.cfg, args)
			if err != nil {
				return err
			}

			err = os.MkdirAll(dir, 0o755)
			if err != nil {
				return errors.Wrapf(err, "unable to create %s", dir)
			}

			files := make([]string, len(s.defs))
			errGrp, dCtx := errgroup.WithContext(cmd.Context())
			errGrp.SetLimit(runtime.NumCPU())
			for i, def := range s.defs {
				i, def := i, def
				errGrp.Go(func() error {
					if err := dCtx.Err(); err != nil {
						return err
					}
					file := filepath.Join(dir, def.Step+".dot")
					msr := measure.NewDefaultMeasure()
					_, err := tracking.Build(s.ctx, def,
						measure.PipelineMeasure(msr),
						drawer.PipelineDrawer(drawer.NewDOTDrawer(def.Step, file), msr),
					)
					if err != nil {
						return err
					}
					files[i] = file

					return nil
				})
			}
			err = errGrp.Wait()
			if err != nil {
				return err
			}

			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}

			return nil
		},
	}

	c.Flags().StringVarP(&dir, "dir", "d", ".", "Directory receiving the DOT files")

	return c
}
