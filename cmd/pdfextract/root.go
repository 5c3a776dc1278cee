package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/config"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/ocr"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/pipeline"
)

var (
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pdfextract",
	Short: "Reconstruct document layout into structured JSON",
	Long: `pdfextract reads PDF pages as positioned words, tables and images and
rebuilds them into reading-order content: paragraphs labelled with their
section and subsection, tables, and charts.

DOCX, Markdown, HTML, CSV and plain text files are accepted too; they are
laid out on a single page before the same reconstruction runs.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		if err := v.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
			return err
		}
		if err := v.BindPFlag("log_format", cmd.Flags().Lookup("log-format")); err != nil {
			return err
		}
		if f := cmd.Flags().Lookup("port"); f != nil {
			if err := v.BindPFlag("port", f); err != nil {
				return err
			}
		}
		if f := cmd.Flags().Lookup("workers"); f != nil {
			if err := v.BindPFlag("page_workers", f); err != nil {
				return err
			}
		}

		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cmd.ErrOrStderr(), cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./pdfextract.yaml or ~/.pdfextract/pdfextract.yaml)",
	)
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	rootCmd.AddCommand(versionCmd)
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// chartReader returns the OCR chart reader when it was compiled in, and a
// reader that finds no data otherwise. The returned func releases it.
func chartReader(cfg config.Config, log *slog.Logger) (pipeline.ChartReader, func()) {
	reader, err := ocr.New(cfg.OCRLanguage)
	if err != nil {
		log.Debug("chart ocr disabled", "error", err)
		return ocr.Nop{}, func() {}
	}
	return reader, func() { reader.Close() }
}
