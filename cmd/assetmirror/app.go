package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/smarty/assetmirror/contracts"
	"github.com/smarty/assetmirror/core"
	"github.com/smarty/assetmirror/remote"
	"github.com/smarty/assetmirror/shell"
)

// requestTimeout bounds a single HEAD/GET. It is generous relative to a
// typical asset size since RetryClient, not this timeout, is what absorbs
// transient provider failures.
const requestTimeout = 2 * time.Minute

// App wires every component of the fetch pipeline together and drives one
// invocation end to end. It is grounded on the teacher's DownloadApp
// (cmd/satisfy/download.go): a constructor that wires contracts/core/shell
// together, and a Run method that reports a process exit code rather than
// calling log.Fatal directly, so main stays a thin shell.
type App struct {
	config    Config
	fs        contracts.FileSystem
	writer    *core.AtomicWriter
	resolver  contracts.UrlResolver
	index     contracts.VersionIndex
	selector  *core.Selector
	fetcher   *core.ManifestFetcher
	scheduler *core.FetchScheduler
}

func NewApp(config Config) *App {
	transport := remote.NewHTTPClient(requestTimeout)
	client := core.NewRetryClient(transport, config.Options.MaxRetry, time.Sleep)

	resolver := contracts.TemplateUrlResolver{Base: config.CDNBase}
	fs := shell.NewOSFileSystem()
	writer := core.NewAtomicWriter(fs)

	fetcher := &core.ManifestFetcher{Client: client, Writer: writer, Options: config.Options}
	index := core.NewCatalogVersionIndex(client, config.CatalogBase, resolver, config.Options.Variant)
	chooser := shell.NewInteractiveChooser()
	selector := core.NewSelector(index, fetcher, fs, chooser, config.Options)

	job := &core.AssetJob{Resolver: resolver, Client: client, Writer: writer, Options: config.Options}
	progress := core.NewConsoleProgressSink(os.Stdout)
	scheduler := core.NewFetchScheduler(job, progress, config.Options.Parallel)

	return &App{
		config:    config,
		fs:        fs,
		writer:    writer,
		resolver:  resolver,
		index:     index,
		selector:  selector,
		fetcher:   fetcher,
		scheduler: scheduler,
	}
}

// Run processes every selected manifest version sequentially, per §5: one
// version's asset set is fully dispatched (bounded by --parallel workers)
// before the next version's manifest is fetched. It returns the
// process exit code rather than calling os.Exit so main can defer cleanup.
func (this *App) Run(ctx context.Context) int {
	descriptors, err := this.selector.Select(ctx)
	if err != nil {
		log.Println("[ERROR] selecting versions:", err)
		return 1
	}
	if len(descriptors) == 0 {
		log.Println("[INFO] nothing selected")
		return 0
	}

	failures := 0
	for _, descriptor := range descriptors {
		if err := this.runOne(ctx, descriptor); err != nil {
			var ioErr *contracts.IOPermissionError
			if errors.As(err, &ioErr) {
				log.Printf("[ERROR] cannot write output: %v\n", err)
				return 1
			}
			log.Printf("[ERROR] version %d: %v\n", descriptor.Version, err)
			failures++
			continue
		}
	}
	if failures > 0 {
		return 1
	}
	return 0
}

func (this *App) runOne(ctx context.Context, descriptor contracts.ManifestDescriptor) error {
	dir := core.VersionDir(this.config.Options.OutputDir, descriptor.Version)
	if err := this.writer.CleanStaleTempFiles(dir); err != nil {
		return fmt.Errorf("cleaning stale temp files: %w", err)
	}

	manifest, _, err := this.fetcher.Fetch(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("fetching manifest: %w", err)
	}

	return this.scheduler.Run(ctx, descriptor.Version, manifest.Entries())
}
