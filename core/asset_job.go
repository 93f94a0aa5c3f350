package core

import (
	"context"
	"path/filepath"

	"github.com/smarty/assetmirror/contracts"
)

// JobResult is what a completed AssetJob reports back to its scheduler:
// enough to drive a ProgressSink.Tick call.
type JobResult struct {
	Name   string
	Bytes  int64
	Status contracts.JobStatus
}

// AssetJob executes the single-asset state machine of §4.7: HEAD-skip,
// GET, verify, optionally persist. It holds no state between calls to
// Run and touches only the path for its own record, so many AssetJobs
// sharing one AssetJob value may run concurrently.
type AssetJob struct {
	Resolver contracts.UrlResolver
	Client   contracts.HTTPClient
	Writer   *AtomicWriter
	Options  contracts.Options
}

// Run fetches, verifies, and (unless DryRun or Checksum) persists one
// asset of the given version. See §4.7 for the step-by-step contract.
func (this *AssetJob) Run(ctx context.Context, version uint64, record contracts.AssetRecord) (JobResult, error) {
	url := this.Resolver.BlobURL(version, this.Options.Variant, record.RemoteFile)
	dir := VersionDir(this.Options.OutputDir, version)
	path := filepath.Join(dir, record.Name)

	// The HEAD-skip short-circuit is itself skipped in a plain dry-run,
	// since there is nothing on disk yet to compare against and nothing
	// will be written; it always runs in --checksum mode, where the
	// comparison IS the point of the invocation.
	skipHeadCheck := this.Options.DryRun && !this.Options.Checksum
	if !skipHeadCheck {
		result, handled, err := this.checkLocal(ctx, url, path, record)
		if err != nil {
			return JobResult{}, err
		}
		if handled {
			return result, nil
		}
	}

	response, body, err := this.Client.Get(ctx, url)
	if err != nil {
		return JobResult{}, err
	}
	if verifyErr := Verify(url, record.Name, response, body); verifyErr != nil {
		// One whole-body retry on checksum mismatch per §4.7/§7, distinct
		// from RetryClient's own transport-level retries.
		response, body, err = this.Client.Get(ctx, url)
		if err != nil {
			return JobResult{}, err
		}
		if verifyErr := Verify(url, record.Name, response, body); verifyErr != nil {
			return JobResult{}, verifyErr
		}
	}

	if !this.Options.DryRun && !this.Options.Checksum {
		if err := this.Writer.WriteAtomic(dir, record.Name, body); err != nil {
			return JobResult{}, err
		}
	}

	return JobResult{Name: record.Name, Bytes: int64(len(body)), Status: contracts.JobCompleted}, nil
}

// checkLocal issues the HEAD request and, if a local copy already matches,
// reports it as handled so Run can return without a GET. In --checksum
// mode a missing or mismatched local copy is a fatal ChecksumMismatch
// rather than falling through to a GET, since checksum mode never fetches.
func (this *AssetJob) checkLocal(ctx context.Context, url, path string, record contracts.AssetRecord) (JobResult, bool, error) {
	head, err := this.Client.Head(ctx, url)
	if err != nil {
		return JobResult{}, false, err
	}
	expected, err := ExpectedMD5(url, head)
	if err != nil {
		return JobResult{}, false, err
	}

	content, found, err := this.Writer.ReadFile(path)
	if err != nil {
		return JobResult{}, false, err
	}

	if found {
		actual := BodyMD5(content)
		if actual == expected {
			return JobResult{Name: record.Name, Bytes: int64(len(content)), Status: contracts.JobSkipped}, true, nil
		}
		if this.Options.Checksum {
			return JobResult{}, false, &contracts.ChecksumMismatch{URL: url, Name: record.Name, Expected: expected, Actual: actual}
		}
		return JobResult{}, false, nil
	}

	if this.Options.Checksum {
		return JobResult{}, false, &contracts.ChecksumMismatch{URL: url, Name: record.Name, Expected: expected}
	}
	return JobResult{}, false, nil
}
