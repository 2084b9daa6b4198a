package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// MigrationConfig holds the full TOML-driven migration configuration.
type MigrationConfig struct {
	Source     SourceConfig     `toml:"source"`
	Target     TargetConfig     `toml:"target"`
	Tables     TablesConfig     `toml:"tables"`
	SchemaStep SchemaStepConfig `toml:"schema_migration"`
	Data       DataConfig       `toml:"data"`
	Error      ErrorConfig      `toml:"error"`
	Validation ValidationConfig `toml:"validation"`
	Checkpoint CheckpointConfig `toml:"checkpoint"`
	Export     ExportConfig     `toml:"export"`
	Hooks      HooksConfig      `toml:"hooks"`

	// TypeMapping carries per-type overrides merged over the built-in
	// postgres→mysql defaults.
	TypeMapping map[string]string `toml:"type_mapping"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// SourceConfig identifies the PostgreSQL source connection.
type SourceConfig struct {
	DSN    string `toml:"dsn"`
	Schema string `toml:"schema"` // pg schema to migrate (default: "public")
}

// TargetConfig identifies the MySQL-compatible target connection.
type TargetConfig struct {
	DSN string `toml:"dsn"`
}

// TablesConfig filters the migrated table list. An empty include list
// means all tables in the source schema minus the exclude list.
type TablesConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// SchemaStepConfig controls DDL generation and execution.
type SchemaStepConfig struct {
	Enabled     bool     `toml:"enabled"`
	IgnoreTypes []string `toml:"ignore_types"` // substring match on data_type/udt_name
	DDLOut      string   `toml:"ddl_out"`      // optional: also write generated DDL to this file
}

// DataConfig controls the chunked transfer pipeline.
type DataConfig struct {
	Enabled            bool `toml:"enabled"`
	ChunkSize          int  `toml:"chunk_size"` // rows per source read
	BatchSize          int  `toml:"batch_size"` // rows per target insert
	TruncateBeforeLoad bool `toml:"truncate_before_load"`
}

// ErrorConfig controls retry and failure behavior inside one table's loop.
type ErrorConfig struct {
	MaxRetries      int  `toml:"max_retries"`
	RetryDelay      int  `toml:"retry_delay"` // seconds, fixed delay, no backoff
	ContinueOnError bool `toml:"continue_on_error"`
}

// ValidationConfig controls post-migration checks.
type ValidationConfig struct {
	Enabled       bool `toml:"enabled"`
	CheckCount    bool `toml:"check_count"`
	CheckChecksum bool `toml:"check_checksum"`
	SampleSize    int  `toml:"sample_size"`
}

// CheckpointConfig controls the per-table resume markers.
type CheckpointConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // sqlite file, resolved relative to the config file
}

// ExportConfig describes the delimited bulk-export format used by the
// export subcommand instead of direct row streaming.
type ExportConfig struct {
	Dir        string `toml:"dir"`
	Delimiter  string `toml:"delimiter"`
	Quote      string `toml:"quote"`
	Escape     string `toml:"escape"`
	NullString string `toml:"null_string"`
}

// HooksConfig lists SQL files executed against the target around the data phase.
type HooksConfig struct {
	BeforeData []string `toml:"before_data"`
	AfterData  []string `toml:"after_data"`
}

// loadConfig reads a TOML config file and returns a MigrationConfig with defaults applied.
func loadConfig(path string) (*MigrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := MigrationConfig{
		Source: SourceConfig{Schema: "public"},
		SchemaStep: SchemaStepConfig{
			Enabled:     true,
			IgnoreTypes: []string{"json", "jsonb", "array"},
		},
		Data: DataConfig{
			Enabled:   true,
			ChunkSize: 10000,
			BatchSize: 1000,
		},
		Error: ErrorConfig{
			MaxRetries: 3,
			RetryDelay: 5,
		},
		Validation: ValidationConfig{
			Enabled:       true,
			CheckCount:    true,
			CheckChecksum: true,
			SampleSize:    1000,
		},
		Checkpoint: CheckpointConfig{Path: "checkpoints.db"},
		Export: ExportConfig{
			Dir:        "export",
			Delimiter:  "\t",
			Quote:      `"`,
			Escape:     `\`,
			NullString: `\N`,
		},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if cfg.Source.DSN == "" {
		return nil, fmt.Errorf("source.dsn is required")
	}
	cfg.Source.Schema = strings.TrimSpace(cfg.Source.Schema)
	if cfg.Source.Schema == "" {
		cfg.Source.Schema = "public"
	}
	if cfg.Target.DSN == "" {
		return nil, fmt.Errorf("target.dsn is required")
	}

	if cfg.Data.ChunkSize <= 0 {
		return nil, fmt.Errorf("data.chunk_size must be positive")
	}
	if cfg.Data.BatchSize <= 0 {
		return nil, fmt.Errorf("data.batch_size must be positive")
	}
	if cfg.Data.BatchSize > cfg.Data.ChunkSize {
		return nil, fmt.Errorf("data.batch_size must not exceed data.chunk_size")
	}
	if cfg.Error.MaxRetries < 1 {
		return nil, fmt.Errorf("error.max_retries must be at least 1")
	}
	if cfg.Error.RetryDelay < 0 {
		return nil, fmt.Errorf("error.retry_delay must not be negative")
	}
	if cfg.Validation.SampleSize <= 0 {
		return nil, fmt.Errorf("validation.sample_size must be positive")
	}

	for key := range cfg.TypeMapping {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("type_mapping contains an empty source type key")
		}
	}

	if len(cfg.Export.Delimiter) != 1 {
		return nil, fmt.Errorf("export.delimiter must be a single character")
	}
	if len(cfg.Export.Quote) != 1 {
		return nil, fmt.Errorf("export.quote must be a single character")
	}
	if len(cfg.Export.Escape) != 1 {
		return nil, fmt.Errorf("export.escape must be a single character")
	}
	if cfg.Export.NullString == "" {
		return nil, fmt.Errorf("export.null_string is required")
	}

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *MigrationConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
