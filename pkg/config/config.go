package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// DataDir is a directory with the materialized source files
	// (CSV dumps, portal resource dumps, fixed-width metadata files).
	DataDir string

	// CatalogFile is the path to the dataset catalog CSV.
	CatalogFile string

	// OutputDir is a directory for the assembled layer files.
	OutputDir string

	// OutputFile is the name of the GeoJSON feature collection file.
	OutputFile string

	// JobsNum is a number of concurrent source fetches.
	JobsNum int

	// FetchTimeout bounds the read of one source. A source exceeding it is
	// skipped, not fatal.
	FetchTimeout time.Duration

	// WithPG enables the secondary geodatabase export into PostgreSQL.
	WithPG bool

	// PgHost is a host name for PostgreSQL.
	PgHost string

	// PgUser is a user name for PostgreSQL.
	PgUser string

	// PgPass is a password for PostgreSQL.
	PgPass string

	// PgDB is a database name for PostgreSQL.
	PgDB string

	// BatchSize is a number of records inserted in one copy operation.
	BatchSize int
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptDataDir sets a directory with materialized source files.
func OptDataDir(d string) Option {
	return func(cfg *Config) {
		cfg.DataDir = d
	}
}

// OptCatalogFile sets the path to the dataset catalog CSV.
func OptCatalogFile(p string) Option {
	return func(cfg *Config) {
		cfg.CatalogFile = p
	}
}

// OptOutputDir sets a directory for the assembled layer files.
func OptOutputDir(d string) Option {
	return func(cfg *Config) {
		cfg.OutputDir = d
	}
}

// OptOutputFile sets the GeoJSON file name.
func OptOutputFile(f string) Option {
	return func(cfg *Config) {
		cfg.OutputFile = f
	}
}

// OptJobsNum sets parallelism number for concurrent source fetches.
func OptJobsNum(j int) Option {
	return func(cfg *Config) {
		cfg.JobsNum = j
	}
}

// OptFetchTimeout sets the per-source read timeout.
func OptFetchTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.FetchTimeout = d
	}
}

// OptWithPG enables the PostgreSQL export sink.
func OptWithPG(b bool) Option {
	return func(cfg *Config) {
		cfg.WithPG = b
	}
}

// OptPgHost sets host name for PostgreSQL.
func OptPgHost(h string) Option {
	return func(cfg *Config) {
		cfg.PgHost = h
	}
}

// OptPgUser sets user for PostgreSQL.
func OptPgUser(u string) Option {
	return func(cfg *Config) {
		cfg.PgUser = u
	}
}

// OptPgPass sets password for PostgreSQL.
func OptPgPass(p string) Option {
	return func(cfg *Config) {
		cfg.PgPass = p
	}
}

// OptPgDB sets database name for PostgreSQL.
func OptPgDB(d string) Option {
	return func(cfg *Config) {
		cfg.PgDB = d
	}
}

func New(opts ...Option) Config {
	dataDir, err := os.UserCacheDir()
	if err != nil {
		dataDir = os.TempDir()
	}
	dataDir = filepath.Join(dataDir, "sitecat")

	res := Config{
		DataDir:      dataDir,
		CatalogFile:  filepath.Join(dataDir, "dataset_catalog.csv"),
		OutputDir:    filepath.Join(dataDir, "layer"),
		OutputFile:   "temperature_sites.geojson",
		JobsNum:      8,
		FetchTimeout: 90 * time.Second,
		PgHost:       "0.0.0.0",
		PgUser:       "postgres",
		PgPass:       "postgres",
		PgDB:         "swp",
		BatchSize:    10_000,
	}

	for _, opt := range opts {
		opt(&res)
	}

	return res
}
