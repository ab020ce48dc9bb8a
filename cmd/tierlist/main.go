package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/tierlist/internal/adapters/export/pdf"
	"github.com/hylla/tierlist/internal/app"
	"github.com/hylla/tierlist/internal/config"
	"github.com/hylla/tierlist/internal/domain"
	"github.com/hylla/tierlist/internal/platform"
	"github.com/hylla/tierlist/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}

// options holds flag values shared by every command.
type options struct {
	configPath string
	appName    string
	devMode    bool
	exportDir  string
	topic      string
}

// defaultOptions seeds flag defaults from the environment.
func defaultOptions() *options {
	opts := &options{appName: "tierlist", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TIERLIST_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TIERLIST_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}
	return opts
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := defaultOptions()
	root := &cobra.Command{
		Use:   "tierlist",
		Short: "Sort campaign stakeholders into a rainbow tier list",
		Long: `tierlist opens a terminal board of labeled columns. Set a campaign topic,
add stakeholders to columns, drag them between tiers with the keyboard or
mouse, and export the board as Rainbow-Alliance-Tier-List.pdf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")
	flags.StringVar(&opts.exportDir, "export-dir", "", "directory that receives exported PDFs")
	root.Flags().StringVar(&opts.topic, "topic", "", "campaign topic to start with")

	root.AddCommand(
		newPathsCommand(opts, stdout),
		newColumnsCommand(opts, stdout),
		newExportCommand(opts, stdout, stderr),
		newInitCommand(opts, stdout),
	)
	return root
}

// session is the resolved runtime state for one command invocation.
type session struct {
	opts       *options
	paths      platform.Paths
	configPath string
	cfg        config.Config
}

// loadSession resolves paths and loads configuration.
func loadSession(opts *options) (session, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return session{}, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TIERLIST_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(paths.ExportDir))
	if err != nil {
		return session{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dir := strings.TrimSpace(opts.exportDir); dir != "" {
		cfg.Export.Dir = dir
	} else if envDir := strings.TrimSpace(os.Getenv("TIERLIST_EXPORT_DIR")); envDir != "" {
		cfg.Export.Dir = envDir
	}
	if strings.TrimSpace(cfg.Export.Dir) == "" {
		cfg.Export.Dir = paths.ExportDir
	}
	return session{opts: opts, paths: paths, configPath: configPath, cfg: cfg}, nil
}

// newLogger builds the runtime logger for s.
func (s session) newLogger(stderr io.Writer) (*runtimeLogger, error) {
	logger, err := newRuntimeLogger(stderr, s.opts.appName, s.opts.devMode, s.cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	return logger, nil
}

// newService wires the configured board, exporter and logger into one service.
func (s session) newService(topic string, logger app.Logger) (*app.Service, error) {
	board, err := newBoard(s.cfg.Columns)
	if err != nil {
		return nil, err
	}
	exporter := pdf.NewExporter(pdf.Config{
		Dir:      s.cfg.Export.Dir,
		FileName: s.cfg.Export.FileName,
		Scale:    s.cfg.Export.Scale,
		Fonts:    s.cfg.Export.Fonts,
	})
	if strings.TrimSpace(topic) == "" {
		topic = s.cfg.Board.Topic
	}
	return app.NewService(board, exporter, uuid.NewString, app.ServiceConfig{
		Title:  s.cfg.Board.Title,
		Topic:  topic,
		Logger: logger,
	}), nil
}

// newBoard builds an empty board from configured columns.
func newBoard(columns []config.ColumnConfig) (domain.Board, error) {
	built := make([]domain.Column, 0, len(columns))
	for _, column := range columns {
		col, err := domain.NewColumn(domain.ColumnInput{
			ID:       column.ID,
			Title:    column.Title,
			Color:    column.Color,
			Meaning:  column.Meaning,
			Strategy: column.Strategy,
		})
		if err != nil {
			return domain.Board{}, fmt.Errorf("column %q: %w", column.ID, err)
		}
		built = append(built, col)
	}
	board, err := domain.NewBoard(built)
	if err != nil {
		return domain.Board{}, fmt.Errorf("build board: %w", err)
	}
	return board, nil
}

// runBoard starts the interactive board.
func runBoard(ctx context.Context, opts *options, stderr io.Writer) error {
	sess, err := loadSession(opts)
	if err != nil {
		return err
	}
	logger, err := sess.newLogger(stderr)
	if err != nil {
		return err
	}
	// Runtime logs stay in the dev-file sink while the board owns the terminal.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.consoleActive() {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", "tui")
	logger.Debug("runtime paths resolved", "config_path", sess.configPath, "data_dir", sess.paths.DataDir, "export_dir", sess.cfg.Export.Dir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	svc, err := sess.newService(opts.topic, logger)
	if err != nil {
		logger.Error("board setup failed", "err", err)
		return err
	}
	keys := sess.cfg.Keys
	m := tui.NewModel(
		svc,
		tui.WithLogger(logger),
		tui.WithExportContext(ctx),
		tui.WithKeyConfig(tui.KeyConfig{
			Drag:     keys.Drag,
			Topic:    keys.Topic,
			AddItems: keys.AddItems,
			Export:   keys.Export,
			Info:     keys.Info,
			Copy:     keys.Copy,
		}),
	)
	logger.Info("starting tui program loop", "columns", len(sess.cfg.Columns))
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// parseBoolEnv reads a boolean environment variable, reporting whether it was set and valid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
