// internal/app/commands.go
package app

import (
	"context"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"acekit/core/ace"
	"acekit/core/assembly"
	"acekit/internal/writers"
)

// reportFormat resolves --output against the configured default.
func (a *app) reportFormat(cmd *cobra.Command, flagValue string, known func(string) bool) (string, error) {
	format := a.cfg.Output
	if cmd.Flags().Changed("output") {
		format = flagValue
	}
	if !known(format) {
		return "", usageError{errors.Errorf("unknown output format %q (want text, tsv or json)", format)}
	}
	return format, nil
}

type writeFlags struct {
	threshold    int
	baseSegments bool
}

func (f *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.threshold, "quality-threshold", 0, "Lower-case consensus bases below this quality (0 disables)")
	cmd.Flags().BoolVar(&f.baseSegments, "base-segments", false, "Write BS records from the best-segment tiling")
}

func (a *app) writerOptions(cmd *cobra.Command, f writeFlags) (ace.WriterOptions, error) {
	opt := ace.WriterOptions{QualityThreshold: a.cfg.QualityThreshold, BaseSegments: a.cfg.BaseSegments}
	if cmd.Flags().Changed("quality-threshold") {
		if f.threshold < 0 || f.threshold > 255 {
			return opt, usageError{errors.Errorf("--quality-threshold %d out of range 0..255", f.threshold)}
		}
		opt.QualityThreshold = f.threshold
	}
	if cmd.Flags().Changed("base-segments") {
		opt.BaseSegments = f.baseSegments
	}
	return opt, nil
}

// streamContigs feeds every wanted contig of path to fn in file order.
func (a *app) streamContigs(ctx context.Context, path string, want func(string) bool, fn func(*assembly.Contig) error) error {
	rc, err := ace.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	it := ace.Stream(ctx, rc, ace.StreamOptions{QueueSize: a.cfg.QueueSize, Want: want})
	defer it.Close()
	for it.Next() {
		if err := fn(it.Contig()); err != nil {
			return err
		}
	}
	return errors.Wrapf(it.Err(), "parse %s", path)
}

func (a *app) statsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize each contig",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.reportFormat(cmd, output, writers.Summaries.Has)
			if err != nil {
				return err
			}
			rows, done := writers.Start(a.stdout, writers.Summaries, format, a.cfg.QueueSize)
			n := 0
			err = a.streamContigs(cmd.Context(), args[0], nil, func(c *assembly.Contig) error {
				rows <- writers.Summarize(c)
				n++
				return nil
			})
			close(rows)
			if werr := <-done; err == nil {
				err = werr
			}
			if err != nil {
				return err
			}
			a.log.Info("summarized", "file", args[0], "contigs", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report format: text, tsv or json")
	return cmd
}

func (a *app) idsCommand() *cobra.Command {
	var (
		output   string
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "ids FILE",
		Short: "Index an uncompressed ACE file and list its contigs",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.reportFormat(cmd, output, writers.Indexes.Has)
			if err != nil {
				return err
			}
			var bar *pb.ProgressBar
			ix, err := ace.IndexFileFunc(cmd.Context(), args[0], func(r io.Reader, size int64) io.Reader {
				if !progress || a.quiet {
					return r
				}
				bar = pb.Full.New(0).SetTotal(size)
				bar.SetWriter(a.stderr)
				bar.Set(pb.Bytes, true)
				bar.Start()
				return bar.NewProxyReader(r)
			})
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return err
			}
			a.log.Debug("indexed", "file", args[0], "contigs", ix.Index().Len())
			return writers.Indexes.Write(format, a.stdout, writers.IndexRows(ix.Index()))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report format: text, tsv or json")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar on stderr while indexing")
	return cmd
}

func (a *app) getCommand() *cobra.Command {
	var wf writeFlags
	cmd := &cobra.Command{
		Use:   "get FILE CONTIG...",
		Short: "Fetch contigs through the index and write them as ACE",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := a.writerOptions(cmd, wf)
			if err != nil {
				return err
			}
			ix, err := ace.IndexFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			contigs := make([]*assembly.Contig, 0, len(args)-1)
			reads := 0
			for _, id := range args[1:] {
				c, err := ix.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				contigs = append(contigs, c)
				reads += c.NumReads()
			}
			w := ace.NewWriter(a.stdout, opt)
			w.WriteHeader(len(contigs), reads)
			for _, c := range contigs {
				if err := w.WriteContig(c); err != nil {
					return errors.Wrapf(err, "write contig %s", c.ID())
				}
			}
			return w.Flush()
		},
	}
	wf.register(cmd)
	return cmd
}

func (a *app) rewriteCommand() *cobra.Command {
	var (
		wf  writeFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "rewrite FILE",
		Short: "Parse an ACE file and write it back out",
		Long: `Parse an ACE file and write it back out.

Reads whose QA record leaves no clear range are dropped with a warning.
Clipped read ends are padded with N.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opt, err := a.writerOptions(cmd, wf)
			if err != nil {
				return err
			}
			f, err := ace.ParseFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range f.Skipped {
				a.log.Warn("dropped read without clear range", "contig", s.ContigID, "read", s.ReadID)
			}
			for _, t := range f.Orphaned {
				a.log.Warn("dropped consensus tag outside trimmed consensus", "contig", t.ContigID, "type", t.Type)
			}
			var dst io.Writer = a.stdout
			if out != "" && out != "-" {
				fh, cerr := os.Create(out)
				if cerr != nil {
					return errors.Wrap(cerr, "create output")
				}
				defer func() {
					if cerr := fh.Close(); err == nil {
						err = cerr
					}
				}()
				dst = fh
			}
			if err := ace.WriteFile(dst, f, opt); err != nil {
				return err
			}
			a.log.Info("rewrote", "file", args[0], "contigs", len(f.Contigs), "skipped_reads", len(f.Skipped))
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "O", "", "Output path (default stdout)")
	return cmd
}

func (a *app) tilingCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "tiling FILE [CONTIG...]",
		Short: "Report the best-segment tiling of each contig",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.reportFormat(cmd, output, writers.Tilings.Has)
			if err != nil {
				return err
			}
			var want func(string) bool
			if ids := args[1:]; len(ids) > 0 {
				want = idSet(ids)
			}
			rows, done := writers.Start(a.stdout, writers.Tilings, format, a.cfg.QueueSize)
			err = a.streamContigs(cmd.Context(), args[0], want, func(c *assembly.Contig) error {
				segs, err := assembly.BestSegments(c)
				if errors.Is(err, assembly.ErrNoTilingMatch) {
					a.log.Warn("contig has no full tiling", "contig", c.ID(), "err", err)
					return nil
				}
				if err != nil {
					return errors.Wrapf(err, "tile contig %s", c.ID())
				}
				if err := assembly.CheckTiling(segs, c.Consensus().Len()); err != nil {
					return errors.Wrapf(err, "tile contig %s", c.ID())
				}
				for _, r := range writers.TilingRows(c.ID(), segs) {
					rows <- r
				}
				return nil
			})
			close(rows)
			if werr := <-done; err == nil {
				err = werr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report format: text, tsv or json")
	return cmd
}

func (a *app) consensusCommand() *cobra.Command {
	var gapped bool
	cmd := &cobra.Command{
		Use:   "consensus FILE [CONTIG...]",
		Short: "Write contig consensus sequences as FASTA",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var want func(string) bool
			if ids := args[1:]; len(ids) > 0 {
				want = idSet(ids)
			}
			contigs := make(chan *assembly.Contig, a.cfg.QueueSize)
			done := make(chan error, 1)
			go func() { done <- writers.StreamConsensusFASTA(a.stdout, contigs, gapped) }()
			err := a.streamContigs(cmd.Context(), args[0], want, func(c *assembly.Contig) error {
				contigs <- c
				return nil
			})
			close(contigs)
			if werr := <-done; err == nil {
				err = werr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&gapped, "gapped", false, "Keep consensus gaps as '-'")
	return cmd
}

func idSet(ids []string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}
