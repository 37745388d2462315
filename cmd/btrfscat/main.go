package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/btrfscat/btrfscat/lib/btrfscat"
	"github.com/btrfscat/btrfscat/lib/catalog"
)

type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	logLevel := logLevelFlag{Level: logrus.InfoLevel}
	var partitionOffset string
	var infoOnly bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "btrfscat IMAGE",
		Short: "Catalog the files on an offline btrfs image",

		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetLevel(logLevel.Level)
			ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))

			off, err := parseOffset(partitionOffset)
			if err != nil {
				return fmt.Errorf("--offset: %w", err)
			}

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("main", func(ctx context.Context) error {
				sb, entries, err := btrfscat.Parse(ctx, args[0], off, btrfscat.Options{
					InfoOnly: infoOnly,
					Verbose:  verbose,
				})
				if err != nil {
					return err
				}
				fmt.Printf("label\t%s\n", sb.Label)
				fmt.Printf("nodesize\t%d\n", sb.NodeSize)
				if infoOnly {
					return nil
				}
				printEntries(entries)
				return nil
			})
			return grp.Wait()
		},
	}

	cmd.Flags().Var(&logLevel, "verbosity", "set the log verbosity")
	cmd.Flags().StringVar(&partitionOffset, "offset", "0", "byte offset of the btrfs partition within the image")
	cmd.Flags().BoolVar(&infoOnly, "info-only", false, "stop after reading the superblock")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "emit progress messages as each phase starts")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "btrfscat: error: %v\n", err)
		os.Exit(1)
	}
}

func parseOffset(s string) (int64, error) {
	s = strings.TrimSpace(s)
	return strconv.ParseInt(s, 0, 64)
}

// printEntries is a minimal, stubbed console formatter: one
// tab-separated line per entry, just enough to make the CLI usable on
// its own. Richer formatters (JSON, CSV, tree view) are external
// collaborators, not this program's job.
func printEntries(entries []catalog.FileEntry) {
	for _, e := range entries {
		fmt.Printf("%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			e.InodeNumber, e.TypeString, e.ModeString, e.Size, e.Path, e.MTime, e.FlagString)
	}
}
