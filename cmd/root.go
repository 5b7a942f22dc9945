package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fastcat.org/go/excise/config"
	"fastcat.org/go/excise/instance"
	"fastcat.org/go/excise/internal/logging"
	"fastcat.org/go/excise/report"
	"fastcat.org/go/excise/textedit"
)

type options struct {
	Start  string   `validate:"required"`
	End    string   `validate:"required"`
	Files  []string `validate:"min=1,dive,required"`
	DryRun bool
}

// settings are the persistent flags, layered over the config file.
type settings struct {
	configPath string
	flags      *pflag.FlagSet
	values     config.Config
	cfg        config.Config
}

func Root() *cobra.Command {
	var longDesc strings.Builder
	fmt.Fprintf(&longDesc, "%s version %s\n\n", instance.AppName(), instance.Version())
	fmt.Fprint(&longDesc, "Removes a block of lines from each FILE. The block starts with the first\n"+
		"line containing the start marker and runs up to, but not including, the\n"+
		"next line containing the end marker. If no end marker follows, the block\n"+
		"runs to end of file. Everything outside the block is kept byte for byte.\n\n"+
		"Files without the start marker are left untouched and reported as errors.")

	var opts options
	s := &settings{}
	root := &cobra.Command{
		Use:           instance.AppName() + " --start MARKER --end MARKER FILE...",
		Short:         "remove a marker-delimited block of lines from text files",
		Long:          longDesc.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       instance.Version(),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return s.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			if err := validateOptions(opts); err != nil {
				return err
			}
			return removeBlocks(cmd, opts, s.cfg)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.Start, "start", "s", "", "substring marking the first line of the block")
	f.StringVarP(&opts.End, "end", "e", "", "substring marking the line after the block")
	f.BoolVarP(&opts.DryRun, "dry-run", "n", false, "show the lines that would be removed without changing any file")

	pf := root.PersistentFlags()
	def := config.Default()
	pf.StringVar(&s.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.BoolVar(&s.values.RequireEnd, "require-end", def.RequireEnd, "fail instead of removing through end of file when the end marker is missing")
	pf.BoolVar(&s.values.Sync, "sync", def.Sync, "flush rewritten files to disk before replacing the originals")
	pf.StringVar(&s.values.LogLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")
	pf.StringVar(&s.values.LogFormat, "log-format", def.LogFormat, "log format: text or json")
	pf.StringVar(&s.values.Report, "report", def.Report, "summary printed after editing: table or none")
	s.flags = pf

	root.AddCommand(configCmd(s))
	return root
}

// load reads the config file and applies any explicitly set flags over it.
func (s *settings) load() error {
	path, required := s.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return &exitErr{err, exitUsage}
	}
	if s.flags.Changed("require-end") {
		cfg.RequireEnd = s.values.RequireEnd
	}
	if s.flags.Changed("sync") {
		cfg.Sync = s.values.Sync
	}
	if s.flags.Changed("log-level") {
		cfg.LogLevel = s.values.LogLevel
	}
	if s.flags.Changed("log-format") {
		cfg.LogFormat = s.values.LogFormat
	}
	if s.flags.Changed("report") {
		cfg.Report = s.values.Report
	}
	if err := cfg.Validate(); err != nil {
		return &exitErr{err, exitUsage}
	}
	s.cfg = cfg
	return nil
}

func validateOptions(opts options) error {
	err := config.Validator().Struct(opts)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &exitErr{err, exitUsage}
	}
	var msgs []string
	for _, fe := range ves {
		switch fe.StructField() {
		case "Start":
			msgs = append(msgs, "--start must not be empty")
		case "End":
			msgs = append(msgs, "--end must not be empty")
		default:
			if fe.Tag() == "min" {
				msgs = append(msgs, "at least one FILE is required")
			} else {
				msgs = append(msgs, "FILE must not be empty")
			}
		}
	}
	return &exitErr{errors.New(strings.Join(msgs, "; ")), exitUsage}
}

func removeBlocks(cmd *cobra.Command, opts options, cfg config.Config) error {
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return &exitErr{err, exitUsage}
	}
	if opts.Start == opts.End {
		// every start line also closes the block it opens
		logger.Warn("markers.identical", "marker", opts.Start)
	}
	results := make([]report.Result, 0, len(opts.Files))
	for _, fn := range opts.Files {
		results = append(results, removeBlock(logger, fn, opts, cfg))
	}

	out := cmd.OutOrStdout()
	if opts.DryRun {
		report.Discarded(out, results)
	}
	if cfg.Report == "table" {
		report.Table(out, results)
	}
	return resultsErr(results)
}

func removeBlock(logger *slog.Logger, fn string, opts options, cfg config.Config) report.Result {
	res := report.Result{Path: fn, DryRun: opts.DryRun}
	ed := textedit.DeleteBlock(opts.Start, opts.End)
	if cfg.RequireEnd {
		ed.RequireEnd()
	}
	if opts.DryRun {
		ed.OnDiscard(func(n int, line string) {
			res.Discarded = append(res.Discarded, report.Line{N: n, Text: line})
		})
		res.Err = textedit.ScanFile(fn, ed)
	} else {
		var editOpts []textedit.EditOpt
		if !cfg.Sync {
			editOpts = append(editOpts, textedit.WithoutSync())
		}
		res.Changed, res.Err = textedit.EditFile(fn, ed, editOpts...)
	}
	res.Stats = ed.Stats()

	logger = logger.With("path", fn)
	switch {
	case res.Err != nil:
		logger.Error("file.failed", "err", res.Err)
		return res
	case res.Stats.Unterminated:
		logger.Warn("block.unterminated",
			"end_marker", opts.End,
			"start_line", res.Stats.StartLine,
			"removed", res.Stats.Removed,
		)
	}
	switch {
	case opts.DryRun:
		logger.Info("file.scanned", "removed", res.Stats.Removed)
	case res.Changed:
		logger.Info("file.edited", "start_line", res.Stats.StartLine, "removed", res.Stats.Removed)
	default:
		logger.Info("file.unchanged")
	}
	return res
}

func resultsErr(results []report.Result) error {
	var errs []error
	code := 0
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		errs = append(errs, r.Err)
		c := exitFailure
		if errors.Is(r.Err, textedit.ErrMarkerNotFound) || errors.Is(r.Err, textedit.ErrEndMarkerNotFound) {
			c = exitNotFound
		}
		code = max(code, c)
	}
	if len(errs) == 0 {
		return nil
	}
	return &exitErr{errors.Join(errs...), code}
}
