package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"cliscope/internal/domain"
	"cliscope/internal/infrastructure/cli"
	"cliscope/internal/pkg/filesystem"
)

func main() {
	loadEnvFiles()

	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, domain.ErrToolNotFound) && !errors.Is(err, domain.ErrInvalidToolName) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// loadEnvFiles picks up CLISCOPE_* overrides from a local .env or the
// per-user state directory. Missing files are fine.
func loadEnvFiles() {
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(filesystem.UserHomeDir(), ".cliscope", ".env"))
}

func isVerbose() bool {
	value := os.Getenv("CLISCOPE_DEBUG")
	return strings.EqualFold(value, "1") || strings.EqualFold(value, "true")
}
