package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	configPath string
	schemaOnly bool
	dataOnly   bool
	validate   bool
	resume     bool
)

var rootCmd = &cobra.Command{
	Use:   "obferry [config.toml]",
	Short: "PostgreSQL to OceanBase/MySQL migration tool",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMigration,
}

var exportCmd = &cobra.Command{
	Use:   "export [config.toml]",
	Short: "Export source tables to delimited files instead of streaming",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to migration TOML config file")
	rootCmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "migrate table structure only")
	rootCmd.Flags().BoolVar(&dataOnly, "data-only", false, "migrate data only")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "validate after migration")
	rootCmd.Flags().BoolVar(&resume, "resume", false, "skip tables whose checkpoint status is success")
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig loads the config named by the positional arg or --config flag.
func resolveConfig(args []string) (*MigrationConfig, error) {
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return nil, fmt.Errorf("config file required: obferry <config.toml> or obferry --config <config.toml>")
	}
	return loadConfig(cfgPath)
}

func runMigration(cmd *cobra.Command, args []string) error {
	if schemaOnly && dataOnly {
		return fmt.Errorf("--schema-only and --data-only are mutually exclusive")
	}

	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	log.Printf("obferry — PostgreSQL → MySQL migration")
	log.Printf("config: schema=%s chunk_size=%d batch_size=%d max_retries=%d continue_on_error=%t",
		cfg.Source.Schema, cfg.Data.ChunkSize, cfg.Data.BatchSize,
		cfg.Error.MaxRetries, cfg.Error.ContinueOnError)

	// Connection failures are the only fatal errors; everything past
	// this point degrades per table.
	log.Printf("connecting to PostgreSQL...")
	pool, err := pgxpool.New(ctx, cfg.Source.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	log.Printf("connecting to MySQL target...")
	dst, err := openTarget(ctx, cfg.Target.DSN)
	if err != nil {
		return err
	}
	defer dst.Close()

	r := &runState{
		cfg:    cfg,
		src:    newPGSource(pool, cfg.Source.Schema),
		dst:    dst,
		tm:     newTypeMapping(cfg.TypeMapping),
		resume: resume,
	}

	if cfg.Checkpoint.Enabled {
		cps, err := openCheckpointStore(cfg.resolvePath(cfg.Checkpoint.Path))
		if err != nil {
			return err
		}
		defer cps.Close()
		r.cps = cps
	}

	all, err := r.src.ListTables(ctx)
	if err != nil {
		return err
	}
	r.tables = selectTables(all, cfg.Tables)
	log.Printf("migrating %d of %d tables in schema '%s'", len(r.tables), len(all), cfg.Source.Schema)
	for _, t := range r.tables {
		log.Printf("  - %s", t)
	}

	if err := r.loadSchemas(ctx); err != nil {
		return err
	}

	var schemaList []*Table
	for _, name := range r.tables {
		schemaList = append(schemaList, r.schemas[name])
	}
	for _, w := range collectGeneratedColumnWarnings(schemaList) {
		log.Printf("WARN: %s", w)
	}
	for _, w := range collectVerbatimTypeWarnings(schemaList, cfg.SchemaStep.IgnoreTypes, r.tm) {
		log.Printf("WARN: %s", w)
	}
	if objs, err := introspectSourceObjects(ctx, pool, cfg.Source.Schema); err != nil {
		log.Printf("WARN: %v", err)
	} else {
		for _, w := range sourceObjectWarnings(objs) {
			log.Printf("WARN: %s", w)
		}
	}

	if !dataOnly && cfg.SchemaStep.Enabled {
		log.Printf("migrating schema...")
		created, failed := r.migrateSchemas(ctx)
		log.Printf("schema migration: %d created, %d failed", created, failed)
	}

	if !schemaOnly && cfg.Data.Enabled {
		if err := loadAndExecSQLFiles(ctx, dst, cfg, cfg.Hooks.BeforeData, "before_data"); err != nil {
			return err
		}

		log.Printf("migrating data...")
		results := r.migrateData(ctx)
		reportResults(results)

		if err := loadAndExecSQLFiles(ctx, dst, cfg, cfg.Hooks.AfterData, "after_data"); err != nil {
			return err
		}

		log.Printf("aligning AUTO_INCREMENT counters...")
		if err := alignAutoIncrement(ctx, dst, schemaList, cfg.SchemaStep.IgnoreTypes); err != nil {
			log.Printf("WARN: %v", err)
		}
	}

	if validate && cfg.Validation.Enabled {
		log.Printf("validating...")
		countPassed, checksumPassed := r.validateAll(ctx)
		if cfg.Validation.CheckCount {
			log.Printf("count validation: %d/%d passed", countPassed, len(r.tables))
		}
		if cfg.Validation.CheckChecksum {
			log.Printf("checksum validation: %d/%d passed", checksumPassed, len(r.tables))
		}
	}

	log.Printf("migration completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Source.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	src := newPGSource(pool, cfg.Source.Schema)
	tm := newTypeMapping(cfg.TypeMapping)
	format := newExportFormat(cfg.Export)

	dir := cfg.resolvePath(cfg.Export.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	all, err := src.ListTables(ctx)
	if err != nil {
		return err
	}
	tables := selectTables(all, cfg.Tables)

	for _, name := range tables {
		t, err := src.GetTableSchema(ctx, name)
		if err != nil {
			return err
		}
		ignored := ignoredColumnNames(t, cfg.SchemaStep.IgnoreTypes)

		path := filepath.Join(dir, name+".tsv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		n, err := exportTable(ctx, src, t, ignored, tm, format, int64(cfg.Data.ChunkSize), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Printf("  exported %s: %d rows → %s", name, n, path)
	}
	return nil
}
