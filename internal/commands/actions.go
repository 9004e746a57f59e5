package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gstr1/internal/gstr"
)

// outputOptions are the flags shared by the file-producing commands.
type outputOptions struct {
	company string
	outDir  string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.company, "company", "", "company code used in output file names (default from config)")
	cmd.Flags().StringVar(&o.outDir, "out-dir", ".", "directory for output files")
}

func newConsolidateCommand(opts *globalOptions) *cobra.Command {
	var out outputOptions
	var sdPath, srPath string

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Append the SR file's rows to the SD file's rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			sd, err := readUpload(sdPath)
			if err != nil {
				return err
			}
			sr, err := readUpload(srPath)
			if err != nil {
				return err
			}

			f, err := svc.Consolidate(cmd.Context(), out.company, sd, sr)
			if err != nil {
				return err
			}
			return writeOutputs(cmd, out.outDir, f)
		},
	}

	cmd.Flags().StringVar(&sdPath, "sd", "", "SD file (required)")
	cmd.Flags().StringVar(&srPath, "sr", "", "SR file (required)")
	_ = cmd.MarkFlagRequired("sd")
	_ = cmd.MarkFlagRequired("sr")
	out.register(cmd)

	return cmd
}

func newFilterCommand(opts *globalOptions) *cobra.Command {
	var out outputOptions
	var glPath string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Split a GL dump into GST Payable and Revenue sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			gl, err := readUpload(glPath)
			if err != nil {
				return err
			}

			f, err := svc.Filter(cmd.Context(), out.company, gl)
			if err != nil {
				return err
			}
			return writeOutputs(cmd, out.outDir, f)
		},
	}

	cmd.Flags().StringVar(&glPath, "gl", "", "GL dump file (required)")
	_ = cmd.MarkFlagRequired("gl")
	out.register(cmd)

	return cmd
}

func newSummarizeCommand(opts *globalOptions) *cobra.Command {
	var out outputOptions
	var glPath, tbPath string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Compare GST payable per the GL with the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			gl, err := readUpload(glPath)
			if err != nil {
				return err
			}
			tb, err := readUpload(tbPath)
			if err != nil {
				return err
			}

			f, err := svc.Summarize(cmd.Context(), out.company, gl, tb)
			if err != nil {
				return err
			}
			return writeOutputs(cmd, out.outDir, f)
		},
	}

	cmd.Flags().StringVar(&glPath, "gl", "", "GL dump file (required)")
	cmd.Flags().StringVar(&tbPath, "tb", "", "trial balance file (required)")
	_ = cmd.MarkFlagRequired("gl")
	_ = cmd.MarkFlagRequired("tb")
	out.register(cmd)

	return cmd
}

func newProcessCommand(opts *globalOptions) *cobra.Command {
	var out outputOptions
	var sdPath, srPath, glPath, tbPath string
	var zipped bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run consolidate, filter and summarize in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			in := gstr.Inputs{CompanyCode: out.company}
			if in.CompanyCode == "" {
				in.CompanyCode = cfg.CompanyCode
			}
			for _, u := range []struct {
				path string
				dst  *gstr.Upload
			}{
				{sdPath, &in.SD},
				{srPath, &in.SR},
				{glPath, &in.GL},
				{tbPath, &in.TB},
			} {
				if *u.dst, err = readUpload(u.path); err != nil {
					return err
				}
			}

			files, err := svc.Process(cmd.Context(), in)
			if err != nil {
				return err
			}
			if zipped {
				code, err := svc.CompanyCode(in.CompanyCode)
				if err != nil {
					return err
				}
				archive, err := gstr.Archive(gstr.ArchiveName(code), files, time.Now())
				if err != nil {
					return err
				}
				files = []gstr.File{archive}
			}
			logger.Debug("process complete", "files", len(files))
			return writeOutputs(cmd, out.outDir, files...)
		},
	}

	cmd.Flags().StringVar(&sdPath, "sd", "", "SD file")
	cmd.Flags().StringVar(&srPath, "sr", "", "SR file")
	cmd.Flags().StringVar(&glPath, "gl", "", "GL dump file")
	cmd.Flags().StringVar(&tbPath, "tb", "", "trial balance file")
	cmd.Flags().BoolVar(&zipped, "zip", false, "write one zip archive instead of three workbooks")
	out.register(cmd)

	return cmd
}
