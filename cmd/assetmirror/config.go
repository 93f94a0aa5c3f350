package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/smarty/assetmirror/contracts"
)

// Config is everything main needs to build an App: contracts.Options
// plus the handful of endpoints/flags that never reach core/.
// Grounded on the teacher's cmd.Config (cmd/config.go), generalized from
// a single JSON file load to pflag-parsed flags with environment
// overrides, the way bureau-viewer's main (cmd/bureau-viewer/main.go)
// builds its pflag.FlagSet.
type Config struct {
	Options     contracts.Options
	CatalogBase string
	CDNBase     string
	Diff        bool
	DiffArgs    []string
}

const (
	defaultCatalogBase = "https://catalog.example.com/v1"
	defaultCDNBase     = "https://cdn.example.com"
)

// ParseConfig parses args into a Config. "diff" as the first argument
// dispatches to the offline manifest-diff mode of §4.10 instead of a
// fetch run.
func ParseConfig(args []string) (Config, error) {
	if len(args) > 0 && args[0] == "diff" {
		return Config{Diff: true, DiffArgs: args[1:]}, nil
	}

	var config Config
	var variant string
	var requestedVersion uint64

	flags := pflag.NewFlagSet("assetmirror", pflag.ContinueOnError)
	flags.StringVarP(&config.Options.OutputDir, "output", "o", ".", "directory to mirror assets into")
	flags.StringVar(&variant, "variant", "Android", "platform variant to mirror (android, ios)")
	flags.IntVarP(&config.Options.Parallel, "parallel", "P", runtime.NumCPU(), "maximum concurrent asset downloads per version")
	flags.IntVar(&config.Options.MaxRetry, "max-retry", 3, "maximum retry attempts for a single HTTP request")
	flags.BoolVar(&config.Options.DryRun, "dry-run", false, "fetch and verify without writing to disk")
	flags.BoolVar(&config.Options.Checksum, "checksum", false, "verify already-downloaded files against the manifest instead of fetching")
	flags.BoolVar(&config.Options.Latest, "latest", false, "select only the most recently published version")
	flags.Uint64Var(&requestedVersion, "version", 0, "select exactly this version instead of prompting")
	flags.BoolVar(&config.Options.KeepManifest, "keep-manifest", false, "persist the verified manifest bytes alongside downloaded assets")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	parsedVariant, err := contracts.ParseVariant(variant)
	if err != nil {
		return Config{}, err
	}
	config.Options.Variant = parsedVariant

	if flags.Changed("version") {
		config.Options.RequestedVersion = &requestedVersion
	}

	config.CatalogBase = envOrDefault("MLTD_ASSETMIRROR_CATALOG_BASE", defaultCatalogBase)
	config.CDNBase = envOrDefault("MLTD_ASSETMIRROR_CDN_BASE", defaultCDNBase)

	return config, nil
}

func envOrDefault(name, fallback string) string {
	if value, found := os.LookupEnv(name); found && value != "" {
		return value
	}
	return fallback
}

func (this Config) String() string {
	return fmt.Sprintf("output=%s variant=%s parallel=%d", this.Options.OutputDir, this.Options.Variant, this.Options.Parallel)
}
