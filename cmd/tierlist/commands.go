package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/tierlist/internal/config"
	"github.com/spf13/cobra"
)

func newPathsCommand(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data and export paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := loadSession(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", sess.configPath)
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", sess.paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "export_dir: %s\n", sess.cfg.Export.Dir)
			return nil
		},
	}
}

func newColumnsCommand(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Print the configured columns as a table",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := loadSession(opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, columnsTable(sess.cfg.Columns))
			return err
		},
	}
}

// columnsTable renders one row per column with its color swatch.
func columnsTable(columns []config.ColumnConfig) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(columns))
	for _, column := range columns {
		rows = append(rows, []string{column.ID, column.Title, column.Color, column.Meaning})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TITLE", "COLOR", "MEANING").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(columns) {
				if color := strings.TrimSpace(columns[row].Color); color != "" {
					return cellStyle.Foreground(lipgloss.Color(color))
				}
			}
			return cellStyle
		})
	return t.String()
}

// exportFlags holds values for the headless export command.
type exportFlags struct {
	topic string
	items []string
	out   string
}

func newExportCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a board from flags and export it as a PDF",
		Long: `export fills a fresh board without opening the terminal UI and writes the PDF.
Each --item names a column id and a comma-separated list of entries:

  tierlist export --topic "Transit equity" --item red="Mayor, Council" --item blue=Chamber`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir := strings.TrimSpace(flags.out); dir != "" {
				opts.exportDir = dir
			}
			sess, err := loadSession(opts)
			if err != nil {
				return err
			}
			logger, err := sess.newLogger(stderr)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			logger.Info("command flow start", "command", "export")
			svc, err := sess.newService(flags.topic, logger)
			if err != nil {
				return err
			}
			if svc.Disabled() {
				return errors.New("a topic is required: pass --topic or set board.topic")
			}
			for _, raw := range flags.items {
				columnID, text, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("invalid --item %q: want <column-id>=<items>", raw)
				}
				columnID = strings.TrimSpace(columnID)
				if _, found := svc.Board().Column(columnID); !found {
					return fmt.Errorf("invalid --item %q: unknown column %q", raw, columnID)
				}
				if !svc.AddItems(columnID, text) {
					logger.Warn("item flag added nothing", "column", columnID)
				}
			}

			result, err := svc.Export(cmd.Context())
			if err != nil {
				logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			logger.Info("command flow complete", "command", "export", "path", result.Path)
			_, err = fmt.Fprintln(stdout, result.Path)
			return err
		},
	}
	cmd.Flags().StringVar(&flags.topic, "topic", "", "campaign topic printed on the export")
	cmd.Flags().StringArrayVar(&flags.items, "item", nil, "column items as <column-id>=<a, b, c> (repeatable)")
	cmd.Flags().StringVar(&flags.out, "out", "", "output directory (overrides --export-dir)")
	return cmd
}

func newInitCommand(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := loadSession(opts)
			if err != nil {
				return err
			}
			defaults := config.Default(sess.paths.ExportDir)
			written, err := config.WriteDefault(sess.configPath, defaults)
			if err != nil {
				return err
			}
			if !written {
				_, _ = fmt.Fprintf(stdout, "config already exists: %s\n", sess.configPath)
				return nil
			}
			_, _ = fmt.Fprintf(stdout, "wrote config: %s\n", sess.configPath)
			return nil
		},
	}
}
