package core

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/assetmirror/contracts"
)

func TestManifestCodecFixture(t *testing.T) {
	gunit.Run(new(ManifestCodecFixture), t)
}

type ManifestCodecFixture struct {
	*gunit.Fixture
	descriptor contracts.ManifestDescriptor
}

func (this *ManifestCodecFixture) Setup() {
	this.descriptor = contracts.ManifestDescriptor{Version: 80000, IndexName: "manifest"}
}

func (this *ManifestCodecFixture) TestEncodeThenDecodeRoundTrips() {
	original := contracts.NewManifest(this.descriptor, contracts.VariantAndroid, []contracts.AssetRecord{
		{Name: "z.unity3d", Hash: [16]byte{1, 2, 3}, RemoteFile: "aa/zzzzzz", Size: 1024},
		{Name: "a.unity3d", Hash: [16]byte{4, 5, 6}, RemoteFile: "bb/aaaaaa", Size: 2048},
	})

	raw, err := EncodeManifest(original)
	this.So(err, should.BeNil)

	decoded, err := DecodeManifest(this.descriptor, contracts.VariantAndroid, raw)
	this.So(err, should.BeNil)

	this.So(decoded.Names(), should.Resemble, original.Names())
	this.So(decoded.Entries(), should.Resemble, original.Entries())
}

func (this *ManifestCodecFixture) TestDecodeRejectsEmptyTopLevelArray() {
	_, err := DecodeManifest(this.descriptor, contracts.VariantAndroid, []byte{0x90})

	this.So(err, should.NotBeNil)
	_, ok := err.(*contracts.ManifestDecodeError)
	this.So(ok, should.BeTrue)
}

func (this *ManifestCodecFixture) TestDecodeRejectsMalformedBytes() {
	_, err := DecodeManifest(this.descriptor, contracts.VariantAndroid, []byte{0xff, 0xff, 0xff})

	this.So(err, should.NotBeNil)
}

func (this *ManifestCodecFixture) TestDecodeIsDeterministicAcrossRepeatedCalls() {
	original := contracts.NewManifest(this.descriptor, contracts.VariantAndroid, []contracts.AssetRecord{
		{Name: "c.unity3d", Hash: [16]byte{9}, RemoteFile: "c", Size: 3},
		{Name: "a.unity3d", Hash: [16]byte{8}, RemoteFile: "a", Size: 1},
		{Name: "b.unity3d", Hash: [16]byte{7}, RemoteFile: "b", Size: 2},
	})
	raw, _ := EncodeManifest(original)

	first, _ := DecodeManifest(this.descriptor, contracts.VariantAndroid, raw)
	second, _ := DecodeManifest(this.descriptor, contracts.VariantAndroid, raw)

	this.So(first.Names(), should.Resemble, second.Names())
	this.So(first.Names(), should.Resemble, []string{"c.unity3d", "a.unity3d", "b.unity3d"})
}
