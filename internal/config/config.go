package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultStoreName      = "todoheroes.db"
	DefaultLogName        = "todoheroes.log"
	appDirName            = "todoheroes"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Add       string `toml:"add"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Edit      string `toml:"edit"`
	Undo      string `toml:"undo"`
	ClearDone string `toml:"clear_done"`
	Filter    string `toml:"filter"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
}

type Config struct {
	StorePath     string `toml:"store_path"`
	LogPath       string `toml:"log_path"`
	DefaultFilter string `toml:"default_filter"`
	UndoSeconds   int    `toml:"undo_seconds"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath places the config under the user config dir, falling
// back to the working directory when that is unavailable.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(filepath.Dir(path), DefaultStoreName)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(path), DefaultLogName)
	}
	if cfg.UndoSeconds <= 0 {
		cfg.UndoSeconds = 3
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		StorePath:     filepath.Join(dir, DefaultStoreName),
		LogPath:       filepath.Join(dir, DefaultLogName),
		DefaultFilter: "all",
		UndoSeconds:   3,
		Keys: Keymap{
			Quit:      "q",
			Add:       "a",
			Up:        "k",
			Down:      "j",
			Toggle:    " ",
			Delete:    "d",
			Edit:      "e",
			Undo:      "u",
			ClearDone: "x",
			Filter:    "f",
			Confirm:   "enter",
			Cancel:    "esc",
		},
	}
}
