// Package command implements the tokenframe command line.
package command

import (
	"fmt"
	"io"
	"os"

	internal "github.com/ZanzyTHEbar/tokenframe/tokenframe"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/common"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/config"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/engine"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/tokenize"
	"github.com/ZanzyTHEbar/tokenframe/tokenframe/tokenizer"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalParams are shared by every subcommand.
type globalParams struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

type tokenizeParams struct {
	input        string
	output       string
	header       bool
	emptyMissing bool
	spec         string
	minLength    int
	lowercase    bool
	workers      int
	chunkRows    int
	marker       string
}

// NewCommand returns the root command for the tokenframe CLI
func NewCommand() (cmd *cobra.Command) {
	var params globalParams

	cmd = &cobra.Command{
		Use:          internal.DefaultAppName,
		Short:        "row tokenization for tabular data",
		Long:         `tokenframe turns every row of a string table into a token stream with one end-of-row marker per row.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(params.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = params.logLevel
			}
			params.cfg = cfg
			params.logger = internal.GetLoggerWithLevel(cfg.Log.Level)
			return nil
		},
	}

	cmd.AddCommand(NewTokenizeCommand(&params))

	cmd.PersistentFlags().StringVar(&params.configPath, "config", "", "config file (default searches ./config.yaml and "+internal.DefaultConfigFile+")")
	cmd.PersistentFlags().StringVar(&params.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	return cmd
}

// NewTokenizeCommand returns the tokenize command
func NewTokenizeCommand(global *globalParams) (cmd *cobra.Command) {
	var params tokenizeParams

	cmd = &cobra.Command{
		Use:   "tokenize",
		Short: "Tokenize the rows of a CSV file",
		Example: `tokenframe tokenize --input reviews.csv --header --spec '[ ,.;]' --min-length 2 --lowercase
tokenframe tokenize --input docs.csv --spec 'tokenize:elasticsearch:http://localhost:9200/_analyze?analyzer=standard'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyOverrides(cmd, global.cfg, &params)
			return runTokenize(cmd, global, &params)
		},
	}

	cmd.Flags().StringVarP(&params.input, "input", "i", "", "CSV file to read, - for stdin")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "file to write tokens to (default stdout)")
	cmd.Flags().BoolVar(&params.header, "header", false, "first CSV record holds column names")
	cmd.Flags().BoolVar(&params.emptyMissing, "empty-missing", true, "treat empty CSV fields as missing cells")
	cmd.Flags().StringVar(&params.spec, "spec", "", "delimiter regex or tokenize:<tag>:<payload> strategy")
	cmd.Flags().IntVar(&params.minLength, "min-length", 0, "drop tokens shorter than this many characters")
	cmd.Flags().BoolVar(&params.lowercase, "lowercase", false, "lowercase tokens")
	cmd.Flags().IntVar(&params.workers, "workers", 0, "chunks processed at once (0 = default)")
	cmd.Flags().IntVar(&params.chunkRows, "chunk-rows", 0, "rows per chunk")
	cmd.Flags().StringVar(&params.marker, "na", "", "line written at the end of each row")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

// applyOverrides copies config values into params for flags the user did
// not set.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, params *tokenizeParams) {
	if !cmd.Flags().Changed("spec") {
		params.spec = cfg.Tokenize.Spec
	}
	if !cmd.Flags().Changed("min-length") {
		params.minLength = cfg.Tokenize.MinLength
	}
	if !cmd.Flags().Changed("lowercase") {
		params.lowercase = cfg.Tokenize.Lowercase
	}
	if !cmd.Flags().Changed("workers") {
		params.workers = cfg.Engine.Workers
	}
	if !cmd.Flags().Changed("chunk-rows") {
		params.chunkRows = cfg.Engine.ChunkRows
	}
}

func runTokenize(cmd *cobra.Command, global *globalParams, params *tokenizeParams) error {
	if params.minLength < 0 {
		return fmt.Errorf("%w: --min-length must be >= 0", common.ErrInvalidConfig)
	}

	in, closeIn, err := openInput(cmd, params.input)
	if err != nil {
		return err
	}
	defer closeIn()

	f, err := ReadCSV(in, readOptions{header: params.header, emptyMissing: params.emptyMissing, chunkRows: params.chunkRows})
	if err != nil {
		return err
	}

	logger := global.logger
	metrics := common.NewTransformMetrics()
	remote := global.cfg.Remote

	tokOpts := []tokenizer.Option{
		tokenizer.WithTimeout(remote.Timeout()),
		tokenizer.WithMaxRetries(remote.MaxRetries),
		tokenizer.WithRetryInterval(remote.RetryInterval()),
		tokenizer.WithLogger(logger),
	}
	// Zero values leave settings carried by the spec string alone.
	if params.minLength > 0 || cmd.Flags().Changed("min-length") {
		tokOpts = append(tokOpts, tokenizer.WithMinLength(params.minLength))
	}
	if params.lowercase || cmd.Flags().Changed("lowercase") {
		tokOpts = append(tokOpts, tokenizer.WithLowercase(params.lowercase))
	}

	out, err := tokenize.Transform(cmd.Context(), f, params.spec,
		tokenize.WithTokenizerOptions(tokOpts...),
		tokenize.WithTaskOptions(
			engine.WithWorkers(params.workers),
			engine.WithLogger(logger),
			engine.WithMetrics(metrics),
		),
	)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, params.output)
	if err != nil {
		return err
	}
	if err := WriteEntries(w, out.Column(0), params.marker); err != nil {
		_ = closeOut()
		return fmt.Errorf("write tokens: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}

	logMetrics(logger, metrics)
	return nil
}

func logMetrics(logger zerolog.Logger, m common.PerformanceMetrics) {
	logger.Debug().Fields(m.GetMetrics()).Msg("tokenize metrics")
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return file, func() { file.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return file, file.Close, nil
}
