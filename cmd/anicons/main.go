// This tool extracts the icons embedded in an animated cursor (.ani) or any
// other RIFF container and stores each one as a separate .ico file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cwbudde/anicons"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"
	"github.com/spf13/cobra"
)

type options struct {
	envFile         string
	outputDir       string
	leaf            string
	maxChunkSize    uint32
	skipWriteErrors bool
	list            bool
}

func main() {
	ctx := logger.WithContext(context.Background())

	if err := newRootCommand(ctx, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(ctx context.Context, out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "anicons [flags] FILEPATH",
		Short: "Extract the icons of an animated cursor",
		Long: `anicons walks the chunks of a RIFF file, such as a Windows animated cursor,
and writes every embedded icon to {name}-{N}.ico, N counting from 0.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			conf, err := loadConfig(opts.envFile)
			if err != nil {
				return errors.Wrapf(err, "load config")
			}

			flags := cmd.Flags()
			if flags.Changed("output") {
				conf.OutputDir = opts.outputDir
			}

			if flags.Changed("max-chunk-size") {
				conf.MaxChunkSize = opts.maxChunkSize
			}

			if flags.Changed("skip-write-errors") {
				conf.SkipWriteErrors = opts.skipWriteErrors
			}

			if flags.Changed("leaf") {
				if conf.Leaf, err = parseFourCC(opts.leaf); err != nil {
					return errors.Wrapf(err, "parse --leaf")
				}
			}

			return run(ctx, out, args[0], conf, opts.list)
		},
	}

	cmd.SetOut(out)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Optional dotenv file with ANICONS_* settings")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Directory to write the icons to (defaults to the current directory)")
	flags.StringVar(&opts.leaf, "leaf", string(anicons.CIDIcon[:]), "Chunk ID to extract")
	flags.Uint32Var(&opts.maxChunkSize, "max-chunk-size", anicons.DefaultMaxPayloadSize, "Skip chunks larger than this many bytes (0 for no limit)")
	flags.BoolVar(&opts.skipWriteErrors, "skip-write-errors", false, "Keep going when an icon can't be written")
	flags.BoolVar(&opts.list, "list", false, "Print the chunk layout instead of extracting")

	return cmd
}

func run(ctx context.Context, out io.Writer, path string, conf config, list bool) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "could not open %v", path)
	}
	defer file.Close()

	ext := anicons.NewExtractor(file)
	ext.LeafID = conf.Leaf
	ext.MaxPayloadSize = conf.MaxChunkSize
	ext.SkipWriteErrors = conf.SkipWriteErrors

	if list {
		return listChunks(ctx, out, ext)
	}

	sink := anicons.NewDirSink(conf.OutputDir, path)

	count, err := ext.Extract(ctx, anicons.SinkFunc(func(index uint32, data []byte) error {
		if err := sink.WriteArtifact(index, data); err != nil {
			return err
		}

		logger.Tf(ctx, "write %v, %vB", sink.Path(index), len(data))

		return nil
	}))
	if err != nil {
		return errors.Wrapf(err, "could not extract icons from %v", path)
	}

	fmt.Fprintf(out, "extracted %d icon(s)\n", count)

	return nil
}

func listChunks(ctx context.Context, out io.Writer, ext *anicons.Extractor) error {
	outer, err := ext.Container()
	if err != nil {
		return errors.Wrapf(err, "read container")
	}

	fmt.Fprintf(out, "%08d RIFF %q size=%d\n", outer.Offset, outer.Form[:], outer.Size)

	_, err = ext.Walk(ctx, func(ch anicons.Chunk, depth int) error {
		fmt.Fprintf(out, "%08d %s%s\n", ch.Offset, strings.Repeat("  ", depth+1), ch)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "walk chunks")
	}

	return nil
}
