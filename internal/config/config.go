package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "haru.db"
	DefaultLogName        = "haru.log"
	DefaultStorageKey     = "pastel_todo_items_v1"
	DefaultAnnounceDelay  = time.Second

	envConfigPath = "HARU_CONFIG"
	appDirName    = "haru"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Left        string `toml:"left"`
	Right       string `toml:"right"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Edit        string `toml:"edit"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Filter      string `toml:"filter"`
	ListTab     string `toml:"list_tab"`
	CalendarTab string `toml:"calendar_tab"`
	SwitchTab   string `toml:"switch_tab"`
	PrevMonth   string `toml:"prev_month"`
	NextMonth   string `toml:"next_month"`
	Today       string `toml:"today"`
	NextChip    string `toml:"next_chip"`
}

type Storage struct {
	// Backend is one of "sqlite", "redis" or "memory".
	Backend  string `toml:"backend"`
	Key      string `toml:"key"`
	RedisURL string `toml:"redis_url"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	DBPath        string  `toml:"db_path"`
	DefaultFilter string  `toml:"default_filter"`
	DefaultTab    string  `toml:"default_tab"`
	AnnounceDelay string  `toml:"announce_delay"`
	Storage       Storage `toml:"storage"`
	Log           Log     `toml:"log"`
	Keys          Keymap  `toml:"keys"`
}

// ResolveConfigPath returns $HARU_CONFIG when set, otherwise config.toml
// inside the user config directory. It falls back to the working directory
// when no user config directory is known.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
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
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

// AnnounceDuration parses AnnounceDelay, falling back to one second.
func (c Config) AnnounceDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.AnnounceDelay))
	if err != nil || d <= 0 {
		return DefaultAnnounceDelay
	}
	return d
}

func (c *Config) fillDefaults(dir string) {
	def := defaultConfig(dir)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = def.DefaultFilter
	}
	if c.DefaultTab == "" {
		c.DefaultTab = def.DefaultTab
	}
	if c.AnnounceDelay == "" {
		c.AnnounceDelay = def.AnnounceDelay
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = def.Storage.Key
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	c.Keys = mergeKeys(c.Keys, def.Keys)
}

func mergeKeys(k, def Keymap) Keymap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Keymap{
		Quit:        pick(k.Quit, def.Quit),
		Add:         pick(k.Add, def.Add),
		Up:          pick(k.Up, def.Up),
		Down:        pick(k.Down, def.Down),
		Left:        pick(k.Left, def.Left),
		Right:       pick(k.Right, def.Right),
		Toggle:      pick(k.Toggle, def.Toggle),
		Delete:      pick(k.Delete, def.Delete),
		Edit:        pick(k.Edit, def.Edit),
		Confirm:     pick(k.Confirm, def.Confirm),
		Cancel:      pick(k.Cancel, def.Cancel),
		Filter:      pick(k.Filter, def.Filter),
		ListTab:     pick(k.ListTab, def.ListTab),
		CalendarTab: pick(k.CalendarTab, def.CalendarTab),
		SwitchTab:   pick(k.SwitchTab, def.SwitchTab),
		PrevMonth:   pick(k.PrevMonth, def.PrevMonth),
		NextMonth:   pick(k.NextMonth, def.NextMonth),
		Today:       pick(k.Today, def.Today),
		NextChip:    pick(k.NextChip, def.NextChip),
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration used when no file exists, with data
// files placed in dir.
func Default(dir string) Config {
	return defaultConfig(dir)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:        filepath.Join(dir, DefaultDBName),
		DefaultFilter: "all",
		DefaultTab:    "list",
		AnnounceDelay: DefaultAnnounceDelay.String(),
		Storage: Storage{
			Backend: "sqlite",
			Key:     DefaultStorageKey,
		},
		Log: Log{
			Level: "info",
			File:  filepath.Join(dir, DefaultLogName),
		},
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Up:          "k",
			Down:        "j",
			Left:        "h",
			Right:       "l",
			Toggle:      " ",
			Delete:      "d",
			Edit:        "e",
			Confirm:     "enter",
			Cancel:      "esc",
			Filter:      "f",
			ListTab:     "1",
			CalendarTab: "2",
			SwitchTab:   "tab",
			PrevMonth:   "[",
			NextMonth:   "]",
			Today:       "t",
			NextChip:    "n",
		},
	}
}
