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

func TestSelectorFixture(t *testing.T) {
	gunit.Run(new(SelectorFixture), t)
}

type SelectorFixture struct {
	*gunit.Fixture
	index   *fakeVersionIndex
	fs      *shell.AferoFileSystem
	chooser *fakeChooser
	all     []contracts.ManifestDescriptor
}

func (this *SelectorFixture) Setup() {
	this.all = []contracts.ManifestDescriptor{
		{Version: 90000, DataURL: "https://cdn.example.com/90000/manifest"},
		{Version: 80000, DataURL: "https://cdn.example.com/80000/manifest"},
	}
	this.index = &fakeVersionIndex{all: this.all, latest: this.all[0]}
	this.fs = shell.NewMemoryFileSystem()
	this.chooser = &fakeChooser{}
}

func (this *SelectorFixture) newSelector(options contracts.Options) *Selector {
	body := []byte{0x91, 0x80} // top-level array of 1, empty entry map
	sum := md5.Sum(body)
	client := &fetcherFakeClient{
		body:     body,
		response: contracts.Response{GoogHash: "md5=" + base64.StdEncoding.EncodeToString(sum[:])},
	}
	fetcher := &ManifestFetcher{Client: client, Writer: NewAtomicWriter(this.fs), Options: options}
	return NewSelector(this.index, fetcher, this.fs, this.chooser, options)
}

func (this *SelectorFixture) TestLatestShortCircuitsToSingleVersion() {
	selector := this.newSelector(contracts.Options{Latest: true})

	descriptors, err := selector.Select(context.Background())

	this.So(err, should.BeNil)
	this.So(descriptors, should.Resemble, []contracts.ManifestDescriptor{this.all[0]})
}

func (this *SelectorFixture) TestRequestedVersionSelectsMatchingDescriptor() {
	requested := uint64(80000)
	selector := this.newSelector(contracts.Options{RequestedVersion: &requested})

	descriptors, err := selector.Select(context.Background())

	this.So(err, should.BeNil)
	this.So(descriptors, should.Resemble, []contracts.ManifestDescriptor{this.all[1]})
}

func (this *SelectorFixture) TestRequestedVersionNotFoundFails() {
	requested := uint64(12345)
	selector := this.newSelector(contracts.Options{RequestedVersion: &requested})

	_, err := selector.Select(context.Background())

	this.So(err, should.NotBeNil)
}

func (this *SelectorFixture) TestChecksumModeSelectsOnlyVersionsAlreadyOnDisk() {
	_ = this.fs.MkdirAll(VersionDir("/out", 80000), 0755)
	selector := this.newSelector(contracts.Options{Checksum: true, OutputDir: "/out"})

	descriptors, err := selector.Select(context.Background())

	this.So(err, should.BeNil)
	this.So(descriptors, should.Resemble, []contracts.ManifestDescriptor{this.all[1]})
}

func (this *SelectorFixture) TestChecksumModeWithNothingOnDiskSelectsNone() {
	selector := this.newSelector(contracts.Options{Checksum: true, OutputDir: "/out"})

	descriptors, err := selector.Select(context.Background())

	this.So(err, should.BeNil)
	this.So(descriptors, should.BeEmpty)
}

func (this *SelectorFixture) TestInteractiveModeDelegatesToChooser() {
	this.chooser.toReturn = []contracts.ManifestDescriptor{this.all[1]}
	selector := this.newSelector(contracts.Options{})

	descriptors, err := selector.Select(context.Background())

	this.So(err, should.BeNil)
	this.So(descriptors, should.Resemble, this.chooser.toReturn)
	this.So(len(this.chooser.received), should.Equal, 2)
}

///////////////////////////////////////////////////////////////////////

type fakeVersionIndex struct {
	all    []contracts.ManifestDescriptor
	latest contracts.ManifestDescriptor
}

func (this *fakeVersionIndex) ListAll(ctx context.Context) ([]contracts.ManifestDescriptor, error) {
	return this.all, nil
}

func (this *fakeVersionIndex) Latest(ctx context.Context) (contracts.ManifestDescriptor, error) {
	return this.latest, nil
}

type fakeChooser struct {
	received []contracts.ManifestSummary
	toReturn []contracts.ManifestDescriptor
}

func (this *fakeChooser) Choose(ctx context.Context, candidates []contracts.ManifestSummary) ([]contracts.ManifestDescriptor, error) {
	this.received = candidates
	return this.toReturn, nil
}
