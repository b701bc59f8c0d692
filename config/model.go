// config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the tree that `config/loader.go` builds
// from three overlay layers:
//
//   - optional `.env`                      – dotenv values,
//   - a YAML file supplied by the caller   – primary static file,
//   - `DG_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the embedding application
// fails fast if required fields are missing.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"` — Koanf ignores yaml tags
//     unless configured otherwise.
//   - Oxford commas, two spaces after periods.
package config

// Database holds the connection string and pool tunables.
type Database struct {
	DSN     string `koanf:"dsn" validate:"required"`
	MaxOpen int    `koanf:"max_open" validate:"min=1"`
	MaxIdle int    `koanf:"max_idle" validate:"min=0"`
}

// Tables names the auxiliary tables the access and audit layers depend on.
// Zero values fall back to the conventional names.
type Tables struct {
	Audit   string `koanf:"audit"`
	Service string `koanf:"service"`
	Grant   string `koanf:"grant"`
	Access  string `koanf:"access"`
	User    string `koanf:"user"`
}

// Access holds permission-evaluation settings.
type Access struct {
	CheckAccess    bool     `koanf:"check_access"`
	ExcludedTables []string `koanf:"excluded_tables"`
}

// Cache holds read-result cache tunables.
type Cache struct {
	Size       int `koanf:"size" validate:"min=1"`
	TTLSeconds int `koanf:"ttl_seconds" validate:"min=1"`
}

// Query holds read-path limits.
type Query struct {
	MaxLimit int `koanf:"max_limit" validate:"min=1"`
}

// Log holds file-logging settings.  An empty Dir leaves file logging off and
// the Client keeps whatever logger it was handed.
type Log struct {
	Dir string `koanf:"dir"`
	Tee bool   `koanf:"tee"`
}

// Audit toggles per-task audit logging.
type Audit struct {
	LogCreate bool `koanf:"log_create"`
	LogUpdate bool `koanf:"log_update"`
	LogDelete bool `koanf:"log_delete"`
	LogRead   bool `koanf:"log_read"`
}

// Config is the root of the configuration tree.
type Config struct {
	Database Database `koanf:"database" validate:"required"`
	Tables   Tables   `koanf:"tables"`
	Access   Access   `koanf:"access"`
	Cache    Cache    `koanf:"cache"`
	Query    Query    `koanf:"query"`
	Audit    Audit    `koanf:"audit"`
	Log      Log      `koanf:"log"`
}

// Defaults returns a Config pre-filled with conventional values; the loader
// overlays file and environment values on top.
func Defaults() Config {
	return Config{
		Database: Database{MaxOpen: 15, MaxIdle: 5},
		Tables: Tables{
			Audit:   "audits",
			Service: "services",
			Grant:   "role_services",
			Access:  "accesses",
			User:    "users",
		},
		Access: Access{ExcludedTables: []string{"users", "apps", "groups", "roles"}},
		Cache:  Cache{Size: 2048, TTLSeconds: 300},
		Query:  Query{MaxLimit: 10000},
	}
}
