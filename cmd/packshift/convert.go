package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/packshift/packshift/internal/engine"
	"github.com/packshift/packshift/internal/pack"
	"github.com/packshift/packshift/internal/rules"
)

func newConvertCmd() *cobra.Command {
	var (
		from, to string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "convert <pack-dir-or-zip>",
		Short: "Convert a pack to a target version and write the result zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			reg, skipped, err := rules.Load(viper.GetString("rules"), logger)
			if err != nil {
				return err
			}
			if skipped > 0 {
				logger.Warn("some rule records were skipped", "count", skipped)
			}

			packDir, cleanup, err := resolvePackDir(args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			if from == "" {
				meta, err := pack.ReadMeta(packDir)
				if err != nil {
					return err
				}
				from = pack.VersionForFormat(meta.Pack.PackFormat)
				if from == "" {
					return fmt.Errorf("cannot detect source version (pack_format %d unknown); pass --from", meta.Pack.PackFormat)
				}
				logger.Info("detected source version", "version", from)
			}

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				outPath = fmt.Sprintf("%s_%s.zip", base, to)
			}

			res, err := engine.NewConverter(reg, logger).Convert(cmd.Context(), engine.Request{
				PackDir: packDir,
				Source:  from,
				Target:  to,
				OutPath: outPath,
			})
			if err != nil {
				return err
			}

			for _, d := range res.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", d)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.ArchivePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source version (default: detected from pack_format)")
	cmd.Flags().StringVar(&to, "to", "", "target version (required)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output archive path (default <pack>_<to>.zip)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// resolvePackDir accepts either an extracted pack directory or a pack zip;
// zips are extracted to a temp directory removed by cleanup.
func resolvePackDir(arg string) (dir string, cleanup func(), err error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return arg, func() {}, nil
	}

	tmp, err := os.MkdirTemp("", "packshift-extract-*")
	if err != nil {
		return "", nil, err
	}
	if err := pack.Extract(arg, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", nil, err
	}
	return tmp, func() { os.RemoveAll(tmp) }, nil
}
