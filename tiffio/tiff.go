// Package tiffio reads and writes the subset of multi-page TIFF used by
// annotation containers: 8 bit RGB or RGBA pages in chunky order, stored
// raw or deflate compressed, optionally named with the PageName tag.
//
// For format details, see:
//
// https://www.itu.int/itudoc/itu-t/com16/tiff-fx/docs/tiff6.pdf
// https://www.awaresystems.be/imaging/tiff/tifftags/pagename.html
package tiffio

import (
	"errors"

	"github.com/klauspost/compress/zlib"
)

const (
	leHeader = "II\x2A\x00"
	beHeader = "MM\x00\x2A"

	headerSize   = 8
	ifdEntrySize = 12
	maxPages     = 1 << 16
	maxPixels    = 1 << 28

	// zlib cannot expand input by more than about 1032:1
	maxDeflateRatio = 1032
)

// Data types, as per the TIFF spec.
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtUndefined = 7
)

// Tags used by annotation containers.
const (
	tImageWidth                = 256
	tImageLength               = 257
	tBitsPerSample             = 258
	tCompression               = 259
	tPhotometricInterpretation = 262
	tStripOffsets              = 273
	tSamplesPerPixel           = 277
	tRowsPerStrip              = 278
	tStripByteCounts           = 279
	tPlanarConfiguration       = 284
	tPageName                  = 285
	tPredictor                 = 317
	tExtraSamples              = 338
)

// Compression schemes.
const (
	cNone       = 1
	cDeflate    = 8
	cDeflateOld = 32946
)

const (
	pRGB = 2

	prNone       = 1
	prHorizontal = 2

	// ExtraSamples value for unassociated (straight) alpha.
	esUnassociatedAlpha = 2
)

var (
	ErrMalformed   = errors.New("tiffio: malformed tiff")
	ErrUnsupported = errors.New("tiffio: unsupported tiff feature")
)

// Page is one image of a multi-page file. Pix holds Width*Height RGBA pixels,
// 4 bytes each, non premultiplied.
type Page struct {
	Width  int
	Height int
	Pix    []uint8

	// Name is the PageName tag. HasName distinguishes an empty name from a
	// missing tag.
	Name    string
	HasName bool
}

// NewPage allocates a fully transparent page.
func NewPage(width int, height int) *Page {
	return &Page{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// CompressionLevel tells the writer how to trade speed for size. All levels
// are lossless.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

func (l CompressionLevel) zlib() int {
	switch l {
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

func (l CompressionLevel) compression() uint32 {
	if l == NoCompression {
		return cNone
	}
	return cDeflate
}

func typeSize(t uint16) int {
	switch t {
	case dtByte, dtASCII, dtUndefined:
		return 1
	case dtShort:
		return 2
	case dtLong:
		return 4
	}
	return 0
}
