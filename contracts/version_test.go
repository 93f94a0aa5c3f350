package contracts

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestVersionFixture(t *testing.T) {
	gunit.Run(new(VersionFixture), t)
}

type VersionFixture struct {
	*gunit.Fixture
}

func (this *VersionFixture) TestParseVariantAcceptsLowercaseAndCanonical() {
	variant, err := ParseVariant("android")
	this.So(err, should.BeNil)
	this.So(variant, should.Equal, VariantAndroid)

	variant, err = ParseVariant("iOS")
	this.So(err, should.BeNil)
	this.So(variant, should.Equal, VariantIOS)
}

func (this *VersionFixture) TestParseVariantRejectsUnknown() {
	_, err := ParseVariant("windows")
	this.So(err, should.NotBeNil)
}

func (this *VersionFixture) TestEpochSegmentSwitchesAtBoundary() {
	this.So(EpochSegment(VersionEpoch-1), should.Equal, "2017v1")
	this.So(EpochSegment(VersionEpoch), should.Equal, "2018v1")
	this.So(EpochSegment(VersionEpoch+1), should.Equal, "2018v1")
}

func (this *VersionFixture) TestTemplateUrlResolverBuildsExpectedPath() {
	resolver := TemplateUrlResolver{Base: "https://cdn.example.com"}

	url := resolver.BlobURL(80000, VariantAndroid, "abcdef")

	this.So(url, should.Equal, "https://cdn.example.com/80000/production/2018v1/Android/abcdef")
}
