package core

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/assetmirror/contracts"
	"github.com/smarty/assetmirror/shell"
)

func TestAssetJobFixture(t *testing.T) {
	gunit.Run(new(AssetJobFixture), t)
}

type AssetJobFixture struct {
	*gunit.Fixture
	client *fakeJobClient
	fs     *shell.AferoFileSystem
	writer *AtomicWriter
	job    *AssetJob
	record contracts.AssetRecord
}

func (this *AssetJobFixture) Setup() {
	this.client = &fakeJobClient{}
	this.fs = shell.NewMemoryFileSystem()
	this.writer = NewAtomicWriter(this.fs)
	this.record = contracts.AssetRecord{Name: "a.unity3d", RemoteFile: "blob-a", Size: 11}
	this.job = &AssetJob{
		Resolver: contracts.TemplateUrlResolver{Base: "https://cdn.example.com"},
		Client:   this.client,
		Writer:   this.writer,
		Options:  contracts.Options{OutputDir: "/out", Variant: contracts.VariantAndroid},
	}
}

func (this *AssetJobFixture) hashHeaderFor(body []byte) string {
	sum := md5.Sum(body)
	return "md5=" + base64.StdEncoding.EncodeToString(sum[:])
}

func (this *AssetJobFixture) TestFreshDownloadIsWrittenToDisk() {
	body := []byte("hello world!")
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor(body)}
	this.client.getResponse = contracts.Response{GoogHash: this.hashHeaderFor(body)}
	this.client.getBody = body

	result, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.BeNil)
	this.So(result.Status, should.Equal, contracts.JobCompleted)
	content, found, _ := this.writer.ReadFile("/out/80000/a.unity3d")
	this.So(found, should.BeTrue)
	this.So(string(content), should.Equal, string(body))
}

func (this *AssetJobFixture) TestMatchingLocalFileSkipsTheDownload() {
	body := []byte("already present")
	_ = this.writer.WriteAtomic("/out/80000", "a.unity3d", body)
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor(body)}

	result, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.BeNil)
	this.So(result.Status, should.Equal, contracts.JobSkipped)
	this.So(this.client.getCalled, should.BeFalse)
}

func (this *AssetJobFixture) TestMismatchedLocalFileTriggersDownload() {
	_ = this.writer.WriteAtomic("/out/80000", "a.unity3d", []byte("stale content"))
	freshBody := []byte("fresh content")
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor(freshBody)}
	this.client.getResponse = contracts.Response{GoogHash: this.hashHeaderFor(freshBody)}
	this.client.getBody = freshBody

	result, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.BeNil)
	this.So(result.Status, should.Equal, contracts.JobCompleted)
	this.So(this.client.getCalled, should.BeTrue)
}

func (this *AssetJobFixture) TestChecksumModeFailsFatallyOnMissingLocalFile() {
	this.job.Options.Checksum = true
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor([]byte("expected"))}

	_, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.NotBeNil)
	_, ok := err.(*contracts.ChecksumMismatch)
	this.So(ok, should.BeTrue)
	this.So(this.client.getCalled, should.BeFalse)
}

func (this *AssetJobFixture) TestDryRunNeverWritesToDisk() {
	this.job.Options.DryRun = true
	body := []byte("payload")
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor(body)}
	this.client.getResponse = contracts.Response{GoogHash: this.hashHeaderFor(body)}
	this.client.getBody = body

	_, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.BeNil)
	_, found, _ := this.writer.ReadFile("/out/80000/a.unity3d")
	this.So(found, should.BeFalse)
}

func (this *AssetJobFixture) TestGetRetriesOnceAfterChecksumMismatchThenSucceeds() {
	goodBody := []byte("good payload")
	this.client.headResponse = contracts.Response{GoogHash: this.hashHeaderFor(goodBody)}
	this.client.getBodies = [][]byte{[]byte("corrupted"), goodBody}
	this.client.getResponses = []contracts.Response{
		{GoogHash: this.hashHeaderFor(goodBody)},
		{GoogHash: this.hashHeaderFor(goodBody)},
	}

	result, err := this.job.Run(context.Background(), 80000, this.record)

	this.So(err, should.BeNil)
	this.So(result.Status, should.Equal, contracts.JobCompleted)
	this.So(this.client.getAttempts, should.Equal, 2)
}

///////////////////////////////////////////////////////////////////////

type fakeJobClient struct {
	headResponse contracts.Response
	headErr      error

	getResponse  contracts.Response
	getBody      []byte
	getResponses []contracts.Response
	getBodies    [][]byte
	getErr       error
	getCalled    bool
	getAttempts  int
}

func (this *fakeJobClient) Head(ctx context.Context, url string) (contracts.Response, error) {
	return this.headResponse, this.headErr
}

func (this *fakeJobClient) Get(ctx context.Context, url string) (contracts.Response, []byte, error) {
	this.getCalled = true
	if len(this.getResponses) > 0 {
		index := this.getAttempts
		if index >= len(this.getResponses) {
			index = len(this.getResponses) - 1
		}
		this.getAttempts++
		return this.getResponses[index], this.getBodies[index], this.getErr
	}
	this.getAttempts++
	return this.getResponse, this.getBody, this.getErr
}
