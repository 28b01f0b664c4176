package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig tests that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.XLSXPath != DefaultXLSXPath {
		t.Errorf("expected xlsx path %q, got %q", DefaultXLSXPath, cfg.XLSXPath)
	}
	if cfg.MappingPath != DefaultMappingPath {
		t.Errorf("expected mapping path %q, got %q", DefaultMappingPath, cfg.MappingPath)
	}
	if cfg.Retries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Retries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("expected retry delay 1s, got %v", cfg.RetryDelay)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected cache ttl 5m, got %v", cfg.CacheTTL)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format text, got %q", cfg.Format)
	}
	if cfg.Users == nil {
		t.Error("expected Users map to be initialized")
	}
	if !cfg.CacheEnabled() {
		t.Error("expected cache to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

// TestConfigRemoteURL tests the derivation of the CSV export URL.
func TestConfigRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sheetID string
		url     string
		want    string
	}{
		{name: "no remote", want: ""},
		{
			name:    "derived from sheet id",
			sheetID: "abc123",
			want:    "https://docs.google.com/spreadsheets/d/abc123/export?format=csv",
		},
		{
			name:    "explicit url wins",
			sheetID: "abc123",
			url:     "http://localhost/sheet.csv",
			want:    "http://localhost/sheet.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.SheetID = tt.sheetID
			cfg.SheetURL = tt.url
			if got := cfg.RemoteURL(); got != tt.want {
				t.Errorf("RemoteURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{
			name: "no source",
			modify: func(c *Config) {
				c.XLSXPath = ""
			},
			want: ErrNoSource,
		},
		{
			name: "csv only is enough",
			modify: func(c *Config) {
				c.XLSXPath = ""
				c.CSVPath = "dados.csv"
			},
		},
		{
			name: "remote only is enough",
			modify: func(c *Config) {
				c.XLSXPath = ""
				c.SheetID = "abc"
			},
		},
		{
			name: "zero retries with remote",
			modify: func(c *Config) {
				c.SheetID = "abc"
				c.Retries = 0
			},
			want: ErrInvalidRetries,
		},
		{
			name: "zero retries without remote is ignored",
			modify: func(c *Config) {
				c.Retries = 0
			},
		},
		{
			name: "negative retry delay",
			modify: func(c *Config) {
				c.SheetID = "abc"
				c.RetryDelay = -time.Second
			},
			want: ErrInvalidRetryDelay,
		},
		{
			name: "zero fetch timeout",
			modify: func(c *Config) {
				c.SheetID = "abc"
				c.FetchTimeout = 0
			},
			want: ErrInvalidFetchTimeout,
		},
		{
			name: "negative cache ttl",
			modify: func(c *Config) {
				c.CacheTTL = -time.Minute
			},
			want: ErrInvalidCacheTTL,
		},
		{
			name: "zero batch size",
			modify: func(c *Config) {
				c.BatchSize = 0
			},
			want: ErrInvalidBatchSize,
		},
		{
			name: "user without hash",
			modify: func(c *Config) {
				c.Users["ana"] = User{Name: "Ana"}
			},
			want: ErrInvalidUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestFileApplyTo tests merging a configuration file onto defaults.
func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("set values override defaults", func(t *testing.T) {
		t.Parallel()

		f := &File{
			Sources: SourcesFile{
				XLSX:       "dados.xlsx",
				SheetID:    "abc",
				Retries:    5,
				RetryDelay: 2 * time.Second,
			},
			Mapping: "colunas.xlsx",
			Cache:   CacheFile{TTL: time.Minute, Dir: "/tmp/cache"},
			Server:  ServerFile{Address: ":9000"},
			Users: map[string]User{
				"ana": {Name: "Ana", PasswordHash: "$2a$10$hash"},
			},
		}

		cfg := NewConfig()
		f.ApplyTo(cfg)

		if cfg.XLSXPath != "dados.xlsx" {
			t.Errorf("xlsx path = %q", cfg.XLSXPath)
		}
		if cfg.SheetID != "abc" || cfg.Retries != 5 || cfg.RetryDelay != 2*time.Second {
			t.Errorf("remote settings not applied: %+v", cfg)
		}
		if cfg.MappingPath != "colunas.xlsx" {
			t.Errorf("mapping path = %q", cfg.MappingPath)
		}
		if cfg.CacheTTL != time.Minute || cfg.DBDir != "/tmp/cache" {
			t.Errorf("cache settings not applied: ttl=%v dir=%q", cfg.CacheTTL, cfg.DBDir)
		}
		if cfg.ServerAddress != ":9000" {
			t.Errorf("server address = %q", cfg.ServerAddress)
		}
		if diff := cmp.Diff(f.Users, cfg.Users); diff != "" {
			t.Errorf("users mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unset values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		want := *cfg
		(&File{}).ApplyTo(cfg)

		if cfg.XLSXPath != want.XLSXPath || cfg.CacheTTL != want.CacheTTL || cfg.Retries != want.Retries {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("disabled cache zeroes ttl", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{Cache: CacheFile{TTL: time.Hour, Disabled: true}}).ApplyTo(cfg)
		if cfg.CacheEnabled() {
			t.Error("expected cache to be disabled")
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		var f *File
		f.ApplyTo(cfg)
		if _, ok := f.User("ana"); ok {
			t.Error("expected no user from nil file")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.vistoria")
		if err == nil {
			t.Fatal("expected error for non-existent file")
		}
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".vistoria")

		content := `sources:
  xlsx: planilha.xlsx
  sheet_id: abc123
  retries: 4
  retry_delay: 500ms
mapping: colunas.xlsx
cache:
  ttl: 10m
server:
  address: ":8081"
users:
  ana:
    name: Ana
    password_hash: "$2a$10$abc"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &File{
			Sources: SourcesFile{
				XLSX:       "planilha.xlsx",
				SheetID:    "abc123",
				Retries:    4,
				RetryDelay: 500 * time.Millisecond,
			},
			Mapping: "colunas.xlsx",
			Cache:   CacheFile{TTL: 10 * time.Minute},
			Server:  ServerFile{Address: ":8081"},
			Users: map[string]User{
				"ana": {Name: "Ana", PasswordHash: "$2a$10$abc"},
			},
		}
		if diff := cmp.Diff(want, cf); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}

		u, ok := cf.User("ana")
		if !ok || u.Name != "Ana" {
			t.Errorf("expected user ana, got %+v (found=%v)", u, ok)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".vistoria")

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".vistoria")
		if err := os.WriteFile(configPath, []byte("sources:\n  xslx: planilha.xlsx\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "xslx") {
			t.Errorf("expected an error naming the unknown key, got %v", err)
		}
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".vistoria")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(&File{Users: map[string]User{}}, cf); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("initializes nil Users map", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".vistoria")

		if err := os.WriteFile(configPath, []byte("mapping: colunas.xlsx\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Users == nil {
			t.Error("expected Users map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yaml")

		if err := os.WriteFile(configPath, []byte("mapping: x.xlsx"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("ignores directories", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile(t.TempDir()); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("search ends in the XDG config directory", func(t *testing.T) {
		t.Parallel()

		paths := SearchPaths()
		want := filepath.Join(XDGConfigDir(), "config.yaml")
		if len(paths) == 0 || paths[len(paths)-1] != want {
			t.Errorf("SearchPaths() = %v, want last %q", paths, want)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if dir == "" {
				t.Fatal("expected non-empty path")
			}
			if !strings.HasSuffix(dir, AppName) {
				t.Errorf("expected path to end with %q, got %q", AppName, dir)
			}
		})
	}
}
