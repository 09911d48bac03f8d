package main

import (
	"embed"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"deadlockoptimizer/internal/backup"
	"deadlockoptimizer/internal/config"
	"deadlockoptimizer/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, cfgPath := loadConfig()

	// Check for CLI mode
	for _, arg := range os.Args[1:] {
		if arg == "--cli" || arg == "-c" {
			runCLI(cfg, cfgPath)
			return
		}
	}

	app := NewApp(cfg, cfgPath, openBackups())

	err := wails.Run(&options.App{
		Title:            "Deadlock Competitive Optimizer",
		Width:            520,
		Height:           640,
		MinWidth:         420,
		MinHeight:        560,
		DisableResize:    false,
		BackgroundColour: &options.RGBA{R: 18, G: 16, B: 14, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			Theme:                windows.Dark,
		},
	})

	if err != nil {
		log.Fatal().Err(err).Msg("failed to start window")
	}
}

// loadConfig reads the preferences file and sets up logging from it.
func loadConfig() (*config.Config, string) {
	path := config.DefaultPath()

	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
		logging.Setup(os.Stderr, cfg.LogLevel)
		log.Warn().Err(err).Str("path", path).Msg("using default preferences")
		return cfg, path
	}

	if !logging.Setup(os.Stderr, cfg.LogLevel) {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
	}
	return cfg, path
}

// openBackups opens the store for original files. Without it the optimizer
// still runs, it just cannot restore.
func openBackups() *backup.Store {
	store, err := backup.NewStore(backup.GetBackupPath())
	if err != nil {
		log.Warn().Err(err).Msg("original-file backups disabled")
		return nil
	}
	return store
}
