package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/aws"
	"github.com/absensi/absensi/internal/config"
	"github.com/absensi/absensi/internal/config/data"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/export"
	"github.com/absensi/absensi/internal/session"
	"github.com/absensi/absensi/internal/view"
)

const (
	appName    = "absensi"
	appVersion = "0.1.0"

	cacheTTL = 10 * time.Second
)

var (
	absensiFlags *data.Flags
	rootCmd      = &cobra.Command{
		Use:   appName,
		Short: "A terminal backoffice for intern attendance",
		Long: `absensi browses the users, roles, divisions and attendance records of the
intern attendance backend, and records the daily check-in of the logged in intern.`,
		RunE:         run,
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	absensiFlags = config.NewFlags()
	initAbsensiFlags()
	rootCmd.AddCommand(
		versionCmd,
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newListCmd(),
		newDashboardCmd(),
		newAttendanceCmd(),
		newUpdateCmd(),
		newExportCmd(),
		newMockServerCmd(),
	)
}

func initAbsensiFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(absensiFlags.BaseURL, "base-url", "", "Backend base URL")
	pf.StringVarP(absensiFlags.Profile, "profile", "p", "", "Session profile to use")
	pf.StringVarP(absensiFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(absensiFlags.LogFile, "logFile", "", "Log file path")
	pf.IntVar(absensiFlags.Timeout, "timeout", 0, "Backend call timeout in seconds")
	pf.IntVar(absensiFlags.RowsPerPage, "rows", 0, "Default rows per page")

	rootCmd.Flags().Float32VarP(absensiFlags.RefreshRate, "refresh", "r", 0, "Refresh rate in seconds")
	rootCmd.Flags().StringVarP(absensiFlags.Command, "command", "c", "", "Startup screen")
	rootCmd.Flags().BoolVar(absensiFlags.Headless, "headless", false, "Hide the header bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// deps carries the wired application services.
type deps struct {
	cfg     *config.Config
	hotKeys *config.HotKeys
	aliases *config.Aliases
	store   *session.Store
	factory *dao.Factory
	target  export.Target
	log     *slog.Logger
	closer  io.Closer
}

func (d *deps) Close() {
	if err := d.cfg.Absensi.SaveActive(); err != nil {
		d.log.Warn("save profile state failed", "error", err)
	}
	if d.closer != nil {
		_ = d.closer.Close()
	}
}

func (d *deps) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.Absensi.Timeout())
}

// bootstrap resolves the locations, logger, configuration and session,
// then wires the backend client.
func bootstrap(ctx context.Context) (*deps, error) {
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}

	logFile := config.AppLogFile
	if config.IsStringSet(absensiFlags.LogFile) {
		logFile = *absensiFlags.LogFile
	}
	if err := config.InitLogLoc(logFile); err != nil {
		return nil, fmt.Errorf("failed to initialize log location: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	log, err := newLogger(*absensiFlags.LogLevel, rotator)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(absensiFlags); err != nil {
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(false)

	hotKeys := config.NewHotKeys()
	if err := hotKeys.Load(); err != nil {
		log.Warn("hotkeys load failed", "error", err)
	}
	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		log.Warn("aliases load failed", "error", err)
	}

	settings := cfg.Absensi
	store := session.NewStore(config.AppCredentialsFile, settings.ActiveProfile, log)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client := api.NewClient(api.Options{
		BaseURL: settings.BaseURL,
		Headers: settings.Headers,
		Logger:  log,
	})
	client.AddRequestInterceptor(api.RequestID())
	client.AddRequestInterceptor(api.BearerToken(store))
	client.AddResponseInterceptor(api.LogResponses(log))
	client.AddResponseInterceptor(session.ExpireOnUnauthorized(store))

	return &deps{
		cfg:     cfg,
		hotKeys: hotKeys,
		aliases: aliases,
		store:   store,
		factory: dao.NewFactory(client, cacheTTL),
		target:  exportTarget(ctx, settings.Export, settings.Timeout(), log),
		log:     log,
		closer:  rotator,
	}, nil
}

// newLogger returns a text logger at the given level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %q (expected debug, info, warn, error)", level)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})), nil
}

// exportTarget writes exports locally and uploads them when a bucket is
// configured. Upload setup failures only disable the upload.
func exportTarget(ctx context.Context, e config.Export, timeout time.Duration, log *slog.Logger) export.Target {
	tgt := export.Target{Dir: config.AppExportsDir, Logger: log}
	if !e.Enabled() {
		return tgt
	}

	client, err := aws.NewAPIClient(&aws.ClientConfig{
		Profile: e.AWSProfile,
		Region:  e.Region,
		Timeout: timeout,
	})
	if err != nil {
		log.Warn("export upload disabled", "error", err)
		return tgt
	}
	s3c, err := client.S3(ctx)
	if err != nil {
		log.Warn("export upload disabled", "error", err)
		return tgt
	}
	up, err := aws.NewUploader(s3c, e.Bucket, e.Prefix, log)
	if err != nil {
		log.Warn("export upload disabled", "error", err)
		return tgt
	}
	tgt.Uploader = up

	return tgt
}

func run(cmd *cobra.Command, args []string) error {
	d, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	app := view.NewApp(view.AppOptions{
		Config:  d.cfg,
		Factory: d.factory,
		Session: d.store,
		HotKeys: d.hotKeys,
		Aliases: d.aliases,
		Export:  d.target,
		Logger:  d.log,
		Version: appVersion,
	})
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	d.log.Info("starting", "version", appVersion, "profile", d.store.Profile(), "backend", d.cfg.Absensi.BaseURL)

	return app.Run(*absensiFlags.Command)
}
