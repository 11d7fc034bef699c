package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"tomato/internal/app"
	"tomato/internal/audio"
	"tomato/internal/config"
	"tomato/internal/fsutil"
	"tomato/internal/history"
	"tomato/internal/notify"
	"tomato/internal/storage"
)

const logFileName = "tomato.log"

type envOptions struct {
	// interactive enables notifications and sound
	interactive bool

	// logToFile sends the log to tomato.log instead of stderr
	logToFile bool
}

// env is everything a command needs to drive the controller.
type env struct {
	cfg      *config.Config
	dataDir  string
	logger   *log.Logger
	ctrl     *app.Controller
	writer   *storage.Writer
	recorder *history.Recorder
	alerter  *notify.Alerter
	player   *audio.Player
	logFile  *os.File
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.storage != "" {
		cfg.Storage = opts.storage
	}
	return cfg, nil
}

// openEnv loads config and data and builds the controller. Recoverable
// load problems are printed as warnings.
func openEnv(opts *rootOptions, eo envOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, dataDir: cfg.GetDataDir()}

	store, err := storage.Open(cfg.Storage, e.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	e.logger = log.New(os.Stderr, "tomato: ", 0)
	if eo.logToFile {
		f, err := fsutil.OpenAppend(filepath.Join(e.dataDir, logFileName))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		e.logFile = f
		e.logger = log.New(f, "", log.LstdFlags)
	}

	snap, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		if e.logFile != nil {
			e.logger.Printf("load: %v", err)
		}
	}

	e.writer = storage.NewWriter(store, e.logger)

	if cfg.History.Enabled && history.IsGitInstalled() {
		e.recorder = history.New(e.dataDir, history.Config{
			Enabled:       cfg.History.Enabled,
			CommitMessage: cfg.History.CommitMessage,
		}, e.logger)
		if e.recorder.IsRepo() {
			e.writer.SetOnSave(e.recorder.OnSaved)
		} else {
			fmt.Fprintln(os.Stderr, "Warning: history is enabled but the data directory is not a git repository (run 'tomato history init')")
		}
	}

	appOpts := app.Options{
		Saver:  e.writer,
		Logger: e.logger,
	}
	if eo.interactive {
		e.alerter = notify.NewAlerter(notify.New(), notify.Config{
			Enabled: cfg.Notifications.Enabled,
			Sound:   cfg.Notifications.Sound,
		}, e.logger)
		appOpts.Alerter = e.alerter

		if cfg.Audio.Enabled {
			var bell io.Writer = io.Discard
			if cfg.Audio.Bell {
				bell = os.Stderr
			}
			e.player = audio.NewPlayer(audio.WithLogger(e.logger), audio.WithBell(bell))
			appOpts.Sounder = e.player
		}
	}

	e.ctrl = app.New(snap, appOpts)
	return e, nil
}

// Close saves pending changes and waits for background work.
func (e *env) Close() error {
	err := e.ctrl.Close()
	if e.recorder != nil {
		e.recorder.Flush()
	}
	if e.alerter != nil {
		e.alerter.Wait()
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
	return err
}
