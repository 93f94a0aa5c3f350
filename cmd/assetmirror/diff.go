package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/smarty/assetmirror/contracts"
	"github.com/smarty/assetmirror/core"
	"github.com/smarty/assetmirror/shell"
)

// diffMain implements the offline "assetmirror diff <older> <newer>"
// mode of §4.10: load two previously cached manifests from disk (written
// by an earlier run with --keep-manifest) and report what changed. It
// never touches the network.
func diffMain(args []string) int {
	var outputDir string
	var variant string

	flags := pflag.NewFlagSet("assetmirror diff", pflag.ContinueOnError)
	flags.StringVarP(&outputDir, "output", "o", ".", "directory the versions were mirrored into")
	flags.StringVar(&variant, "variant", "Android", "platform variant the cached manifests belong to")
	if err := flags.Parse(args); err != nil {
		log.Println("[ERROR]", err)
		return 2
	}

	positional := flags.Args()
	if len(positional) != 2 {
		log.Println("[ERROR] usage: assetmirror diff [--output DIR] <older-version> <newer-version>")
		return 2
	}

	olderVersion, err := strconv.ParseUint(positional[0], 10, 64)
	if err != nil {
		log.Println("[ERROR] invalid older version:", err)
		return 2
	}
	newerVersion, err := strconv.ParseUint(positional[1], 10, 64)
	if err != nil {
		log.Println("[ERROR] invalid newer version:", err)
		return 2
	}

	parsedVariant, err := contracts.ParseVariant(variant)
	if err != nil {
		log.Println("[ERROR]", err)
		return 2
	}

	writer := core.NewAtomicWriter(shell.NewOSFileSystem())

	older, err := loadCachedManifest(writer, outputDir, olderVersion, parsedVariant)
	if err != nil {
		log.Println("[ERROR]", err)
		return 1
	}
	newer, err := loadCachedManifest(writer, outputDir, newerVersion, parsedVariant)
	if err != nil {
		log.Println("[ERROR]", err)
		return 1
	}

	diff := core.Diff(older, newer)
	printDiff(diff)
	return 0
}

func loadCachedManifest(writer *core.AtomicWriter, outputDir string, version uint64, variant contracts.Variant) (contracts.Manifest, error) {
	raw, found, err := writer.ReadManifestCache(outputDir, version)
	if err != nil {
		return contracts.Manifest{}, fmt.Errorf("reading cached manifest for version %d: %w", version, err)
	}
	if !found {
		return contracts.Manifest{}, fmt.Errorf("no cached manifest for version %d under %s (rerun with --keep-manifest)", version, outputDir)
	}

	descriptor := contracts.ManifestDescriptor{Version: version}
	manifest, err := core.DecodeManifest(descriptor, variant, raw)
	if err != nil {
		return contracts.Manifest{}, fmt.Errorf("decoding cached manifest for version %d: %w", version, err)
	}
	return manifest, nil
}

func printDiff(diff contracts.ManifestDiff) {
	for name, record := range diff.Added {
		fmt.Printf("+ %s (%d bytes)\n", name, record.Size)
	}
	for name, record := range diff.Updated {
		fmt.Printf("~ %s (%d bytes)\n", name, record.Size)
	}
	for name := range diff.Removed {
		fmt.Printf("- %s\n", name)
	}
	fmt.Printf("added=%d updated=%d removed=%d\n", len(diff.Added), len(diff.Updated), len(diff.Removed))
}
