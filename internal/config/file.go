package config

import "time"

// User is an account allowed to use the HTTP server.
type User struct {
	// Name is the display name.
	Name string `yaml:"name,omitempty"`

	// PasswordHash is a bcrypt hash, as printed by `vistoria hash-password`.
	PasswordHash string `yaml:"password_hash"`
}

// SourcesFile is the data source section of the configuration file.
type SourcesFile struct {
	// XLSX is the local inspection spreadsheet.
	XLSX string `yaml:"xlsx,omitempty"`

	// CSV is a CSV export of the inspection form.
	CSV string `yaml:"csv,omitempty"`

	// SheetID identifies the remote spreadsheet.
	SheetID string `yaml:"sheet_id,omitempty"`

	// SheetURL overrides the CSV export URL of the remote spreadsheet.
	SheetURL string `yaml:"sheet_url,omitempty"`

	// Retries is the number of remote fetch attempts.
	Retries int `yaml:"retries,omitempty"`

	// RetryDelay is the base delay between remote attempts, e.g. "1s".
	RetryDelay time.Duration `yaml:"retry_delay,omitempty"`

	// Timeout bounds a single remote fetch, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// CacheFile is the cache section of the configuration file.
type CacheFile struct {
	// TTL is how long a fetched dataset stays fresh, e.g. "5m".
	TTL time.Duration `yaml:"ttl,omitempty"`

	// Dir is the directory of the cache database.
	Dir string `yaml:"dir,omitempty"`

	// Disabled turns caching off.
	Disabled bool `yaml:"disabled,omitempty"`
}

// ServerFile is the HTTP server section of the configuration file.
type ServerFile struct {
	// Address is the listen address, e.g. "127.0.0.1:8080".
	Address string `yaml:"address,omitempty"`
}

// File represents the structure of the .vistoria configuration file.
type File struct {
	Sources SourcesFile `yaml:"sources,omitempty"`

	// Mapping is the column mapping spreadsheet.
	Mapping string `yaml:"mapping,omitempty"`

	Cache  CacheFile  `yaml:"cache,omitempty"`
	Server ServerFile `yaml:"server,omitempty"`

	// Users maps login names to accounts.
	Users map[string]User `yaml:"users,omitempty"`
}

// User returns the account for a login name.
func (f *File) User(username string) (User, bool) {
	if f == nil {
		return User{}, false
	}
	u, ok := f.Users[username]
	return u, ok
}

// ApplyTo copies every value set in the file onto the configuration.
// Unset values keep the configuration's current value, so defaults survive
// and CLI flags can still be applied afterwards.
func (f *File) ApplyTo(c *Config) {
	if f == nil {
		return
	}

	s := f.Sources
	if s.XLSX != "" {
		c.XLSXPath = s.XLSX
	}
	if s.CSV != "" {
		c.CSVPath = s.CSV
	}
	if s.SheetID != "" {
		c.SheetID = s.SheetID
	}
	if s.SheetURL != "" {
		c.SheetURL = s.SheetURL
	}
	if s.Retries != 0 {
		c.Retries = s.Retries
	}
	if s.RetryDelay != 0 {
		c.RetryDelay = s.RetryDelay
	}
	if s.Timeout != 0 {
		c.FetchTimeout = s.Timeout
	}

	if f.Mapping != "" {
		c.MappingPath = f.Mapping
	}

	if f.Cache.TTL != 0 {
		c.CacheTTL = f.Cache.TTL
	}
	if f.Cache.Dir != "" {
		c.DBDir = f.Cache.Dir
	}
	if f.Cache.Disabled {
		c.CacheTTL = 0
	}

	if f.Server.Address != "" {
		c.ServerAddress = f.Server.Address
	}

	if len(f.Users) > 0 {
		if c.Users == nil {
			c.Users = make(map[string]User, len(f.Users))
		}
		for name, u := range f.Users {
			c.Users[name] = u
		}
	}
}
