package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config carries the classification tables, inline caps and output layout for
// a snapshot run. The zero value is not usable; start from DefaultConfig or
// LoadConfig.
type Config struct {
	// ExcludedDirs are directory names whose contents never appear in the
	// snapshot, matched case-insensitively as whole path segments.
	ExcludedDirs []string `mapstructure:"excluded_dirs"`

	// BinaryExtensions are file extensions skipped without reading content.
	BinaryExtensions []string `mapstructure:"binary_extensions"`

	// TextExtensions is the allowlist applied to untracked files; tracked
	// files are not subject to it.
	TextExtensions []string `mapstructure:"text_extensions"`

	// SecretPatterns are case-insensitive substrings of a relative path that
	// suppress content inlining regardless of what the file holds.
	SecretPatterns []string `mapstructure:"secret_patterns"`

	MaxInlineTrackedBytes   int64 `mapstructure:"max_inline_tracked_bytes"`
	MaxInlineUntrackedBytes int64 `mapstructure:"max_inline_untracked_bytes"`

	// TreePaths are the top-level paths rendered in the focused tree section.
	TreePaths []string `mapstructure:"tree_paths"`

	// Output is the artifact path relative to the repository root.
	Output string `mapstructure:"output"`

	// RecentCommits is how many log entries the git section shows.
	RecentCommits int `mapstructure:"recent_commits"`
}

// DefaultConfig returns the built-in tables. Running with defaults needs no
// config file at all.
func DefaultConfig() Config {
	return Config{
		ExcludedDirs: []string{
			".git", ".hg", ".svn",
			".idea", ".vscode",
			".cache", ".gradle", ".next", ".terraform", ".tox",
			".venv", "venv", "__pycache__",
			".pytest_cache", ".mypy_cache", ".ruff_cache",
			"node_modules", "vendor",
			"build", "dist", "out", "target", "bin", "obj",
			"coverage", "htmlcov",
			"logs", "captures", "assets", "tmp",
		},
		BinaryExtensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff",
			".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".7z", ".rar",
			".jar", ".war",
			".exe", ".dll", ".so", ".dylib", ".a", ".o", ".bin", ".class",
			".wasm", ".pyc", ".pyo",
			".mp3", ".mp4", ".wav", ".ogg", ".avi", ".mov", ".mkv", ".flac",
			".webm",
			".ttf", ".otf", ".woff", ".woff2", ".eot",
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".db", ".sqlite", ".sqlite3", ".dat", ".pak",
			".iso", ".dmg", ".msi", ".deb", ".rpm",
		},
		TextExtensions: []string{
			".md", ".txt", ".rst", ".tex",
			".go", ".mod", ".sum",
			".py", ".rb", ".rs", ".java", ".kt", ".swift", ".php", ".pl",
			".lua", ".c", ".h", ".cpp", ".hpp", ".cc", ".hh", ".cs",
			".js", ".ts", ".jsx", ".tsx", ".vue", ".svelte",
			".json", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
			".properties",
			".sh", ".bash", ".zsh", ".ps1", ".bat", ".cmd",
			".sql", ".proto", ".graphql",
			".html", ".htm", ".css", ".scss", ".less", ".svg", ".xml",
			".csv", ".tsv",
		},
		SecretPatterns: []string{
			".env",
			"secret", "credential",
			"apikey", "api_key",
			"privatekey", "private_key",
			"id_rsa", "id_ed25519", "id_ecdsa", "id_dsa",
			".pem", ".pfx", ".p12", ".keystore",
		},
		MaxInlineTrackedBytes:   512 * 1024,
		MaxInlineUntrackedBytes: 64 * 1024,
		TreePaths: []string{
			"src", "cmd", "pkg", "internal", "tools", "scripts", "docs",
			"tests",
		},
		Output:        "tools/maintenance/repo_snapshot.txt",
		RecentCommits: 10,
	}
}

// LoadConfig returns the defaults merged with an optional reposnap.toml found
// in the working directory or under $HOME/.config/reposnap/. A missing file
// is not an error; a malformed one is.
func LoadConfig(logger *zap.Logger) (Config, error) {
	v := viper.New()
	v.SetConfigName("reposnap")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "reposnap"))
	}
	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config file", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("excluded_dirs", defaults.ExcludedDirs)
	v.SetDefault("binary_extensions", defaults.BinaryExtensions)
	v.SetDefault("text_extensions", defaults.TextExtensions)
	v.SetDefault("secret_patterns", defaults.SecretPatterns)
	v.SetDefault("max_inline_tracked_bytes", defaults.MaxInlineTrackedBytes)
	v.SetDefault("max_inline_untracked_bytes", defaults.MaxInlineUntrackedBytes)
	v.SetDefault("tree_paths", defaults.TreePaths)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("recent_commits", defaults.RecentCommits)
}

func (c Config) validate() error {
	if c.MaxInlineTrackedBytes <= 0 {
		return fmt.Errorf("max_inline_tracked_bytes must be positive, got %d", c.MaxInlineTrackedBytes)
	}
	if c.MaxInlineUntrackedBytes <= 0 {
		return fmt.Errorf("max_inline_untracked_bytes must be positive, got %d", c.MaxInlineUntrackedBytes)
	}
	if c.RecentCommits < 0 {
		return fmt.Errorf("recent_commits must not be negative, got %d", c.RecentCommits)
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}
