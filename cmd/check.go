package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"
)

const checkTimeout = 10 * time.Second

var errCheckFailed = errors.New("configuration check failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the environment: api key, data directory and external store",
	Run: func(cmd *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		if err := runChecks(ctx, cmd.OutOrStdout(), config); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkResult struct {
	name   string
	err    error
	detail string
}

// runChecks reports every check and fails when any of them failed.
func runChecks(ctx context.Context, out io.Writer, config *Config) error {
	results := []checkResult{
		checkEnvFile(),
		checkAPIKey(config.AI.Gemini),
		checkDataDir(config.DataDir),
		checkStore(ctx, config.Store),
	}

	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(out, "[fail] %s: %v\n", r.name, r.err)
			continue
		}
		fmt.Fprintf(out, "[ok]   %s: %s\n", r.name, r.detail)
	}

	if failed {
		return errCheckFailed
	}
	return nil
}

func checkEnvFile() checkResult {
	r := checkResult{name: ".env file"}
	if _, err := os.Stat(".env"); err != nil {
		r.detail = "not found, using the process environment"
		return r
	}
	r.detail = "found"
	return r
}

func checkAPIKey(cfg *GeminiConfig) checkResult {
	r := checkResult{name: "gemini api key"}
	key, err := secrets.Load(geminiKeySource(cfg))
	if err != nil {
		r.err = fmt.Errorf("%w (add %s=your_key_here to .env)", err, geminiKeyEnv)
		return r
	}
	r.detail = fmt.Sprintf("found (length: %d)", len(key))
	return r
}

func checkDataDir(dir string) checkResult {
	r := checkResult{name: "data directory"}
	archive := store.NewArchive(dir)
	if err := archive.CheckWritable(); err != nil {
		r.err = err
		return r
	}
	r.detail = archive.Dir() + " is writable"
	return r
}

func checkStore(ctx context.Context, cfg *StoreConfig) checkResult {
	r := checkResult{name: "external store"}
	if cfg.Backend == "" || cfg.Backend == "none" {
		r.detail = "disabled"
		return r
	}
	if cfg.Backend == "postgres" && !secrets.Present(postgresDSNSource(cfg.Postgres)) {
		r.err = fmt.Errorf("postgres dsn is not configured (set %s)", postgresDSNEnv)
		return r
	}

	external, err := openStore(ctx, cfg)
	if err != nil {
		r.err = err
		return r
	}
	defer external.Close()

	if err := external.Ping(ctx); err != nil {
		r.err = fmt.Errorf("%s ping: %w", cfg.Backend, err)
		return r
	}
	r.detail = cfg.Backend + " is reachable"
	return r
}
