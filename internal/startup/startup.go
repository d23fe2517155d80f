package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mranlett/ViLM/internal/artifact"
	"github.com/mranlett/ViLM/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration.
type Config struct {
	LibraryDir      string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	ScanOnStart     bool
	LogHealthChecks bool

	Thumbnail artifact.ThumbnailConfig
	Sheet     artifact.SheetConfig
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	libraryDir := getEnv("LIBRARY_DIR", "/library")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	scanOnStart := getEnvBool("SCAN_ON_START", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", false)

	thumbnail := artifact.DefaultThumbnailConfig()
	thumbnail.MaxSize = getEnvInt("THUMBNAIL_MAX_SIZE", thumbnail.MaxSize)
	thumbnail.Quality = getEnvInt("THUMBNAIL_QUALITY", thumbnail.Quality)

	sheet := artifact.DefaultSheetConfig()
	sheet.Columns = getEnvInt("SHEET_COLUMNS", sheet.Columns)
	sheet.Rows = getEnvInt("SHEET_ROWS", sheet.Rows)
	sheet.Timestamps = getEnvBool("SHEET_TIMESTAMPS", sheet.Timestamps)

	logging.Info("  LIBRARY_DIR:        %s", libraryDir)
	logging.Info("  PORT:               %s", port)
	logging.Info("  METRICS_PORT:       %s", metricsPort)
	logging.Info("  METRICS_ENABLED:    %v", metricsEnabled)
	logging.Info("  SCAN_ON_START:      %v", scanOnStart)
	logging.Info("  LOG_HEALTH_CHECKS:  %v", logHealthChecks)
	logging.Info("  THUMBNAIL_MAX_SIZE: %d", thumbnail.MaxSize)
	logging.Info("  SHEET_GRID:         %dx%d", sheet.Columns, sheet.Rows)
	logging.Info("  LOG_LEVEL:          %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("LIBRARY SETUP")
	logging.Info("------------------------------------------------------------")

	libraryDir, err := filepath.Abs(libraryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library directory path: %w", err)
	}
	logging.Info("  Library directory (absolute): %s", libraryDir)

	if err := ensureDirectory(libraryDir); err != nil {
		return nil, fmt.Errorf("library directory error: %w", err)
	}

	// The catalog lives inside the library root, so write access is
	// required.
	logging.Debug("  Testing library directory write access...")
	if err := testWriteAccess(libraryDir); err != nil {
		return nil, fmt.Errorf("library directory is not writable (required for catalog): %w", err)
	}
	logging.Info("  [OK] Library directory is writable")

	return &Config{
		LibraryDir:      libraryDir,
		Port:            port,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		ScanOnStart:     scanOnStart,
		LogHealthChecks: logHealthChecks,
		Thumbnail:       thumbnail,
		Sheet:           sheet,
	}, nil
}

// LogFFmpegCheck verifies the ffmpeg and ffprobe binaries are on PATH.
// Missing binaries are a warning, not a fatal error: the catalog and
// scanner work without them, artifact generation does not.
func LogFFmpegCheck() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("FFMPEG CHECK")
	logging.Info("------------------------------------------------------------")

	for _, binary := range []string{"ffmpeg", "ffprobe"} {
		if err := checkBinary(binary); err != nil {
			logging.Warn("  %s check failed: %v", binary, err)
			logging.Warn("  Artifact generation will fail until %s is installed", binary)
		} else {
			logging.Info("  [OK] %s is available", binary)
		}
	}
}

// LogCatalogInit logs catalog initialization.
func LogCatalogInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Catalog opened in %v", duration)
}

// ServerConfig holds configuration for the server startup log.
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information.
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:  %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    API:       http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:   http://localhost:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:   DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start.
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownComplete logs shutdown completion.
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

func printBanner() {
	banner := `
------------------------------------------------------------
 _   _ _ _     __  __
| | | (_) |   |  \/  |
| | | | | |   | |\/| |
| \_/ | | |___| |  | |
 \___/|_|_____|_|  |_|  Video Library Manager
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}
	logging.Info("")
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func checkBinary(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
