package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectByExtension(t *testing.T) {
	assert.Equal(t, Tabular, Detect("products.csv", "", nil))
	assert.Equal(t, Tabular, Detect("products.xlsx", "", nil))
	assert.Equal(t, JSON, Detect("data.json", "", nil))
	assert.Equal(t, XML, Detect("data.xml", "", nil))
	assert.Equal(t, YAML, Detect("data.yaml", "", nil))
	assert.Equal(t, HTML, Detect("page.html", "", nil))
}

func TestDetectByMIMEPrefix(t *testing.T) {
	assert.Equal(t, Media, Detect("clip.mov", "video/quicktime", nil))
	assert.Equal(t, Media, Detect("photo.weird", "image/png", nil))
	assert.Equal(t, Media, Detect("sound.weird", "audio/mpeg", nil))
}

func TestDetectUnknownExtensionFallsThroughToTextThenBinary(t *testing.T) {
	assert.Equal(t, Text, Detect("notes.xyz", "", []byte("hello world, this is text")))
	assert.Equal(t, Binary, Detect("blob.xyz", "", []byte{0xff, 0xfe, 0x00, 0x80, 0x81}))
}

func TestDetectNeverErrors(t *testing.T) {
	// The detector has no error return; this just exercises a wide set of
	// inputs to document that contract.
	inputs := []struct {
		path, mime string
		prefix     []byte
	}{
		{"", "", nil},
		{"noext", "", []byte(strings.Repeat("x", 10000))},
		{"weird.CSV", "", nil},
	}
	for _, in := range inputs {
		_ = Detect(in.path, in.mime, in.prefix)
	}
}

func TestCoarseModality(t *testing.T) {
	assert.Equal(t, "tabular", CoarseModality(Tabular, ""))
	assert.Equal(t, "document", CoarseModality(JSON, ""))
	assert.Equal(t, "document", CoarseModality(Text, ""))
	assert.Equal(t, "binary", CoarseModality(Binary, ""))
	assert.Equal(t, "image", CoarseModality(Media, "image/png"))
	assert.Equal(t, "video", CoarseModality(Media, "video/mp4"))
	assert.Equal(t, "audio", CoarseModality(Media, "audio/mpeg"))
}
