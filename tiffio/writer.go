package tiffio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zlib"
)

var le = binary.LittleEndian

// Writer encodes pages as a little-endian multi-page TIFF. The whole file is
// assembled in memory so offsets can be patched before anything reaches w.
type Writer struct {
	w     io.Writer
	level CompressionLevel
	buf   bytes.Buffer

	// offset of the previous IFD's next-IFD pointer
	nextPtr int
}

func NewWriter(w io.Writer, level CompressionLevel) *Writer {
	return &Writer{w: w, level: level}
}

type ifdField struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func shortField(tag uint16, values ...uint16) ifdField {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		le.PutUint16(data[2*i:], v)
	}
	return ifdField{tag: tag, typ: dtShort, count: uint32(len(values)), data: data}
}

func longField(tag uint16, values ...uint32) ifdField {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		le.PutUint32(data[4*i:], v)
	}
	return ifdField{tag: tag, typ: dtLong, count: uint32(len(values)), data: data}
}

func asciiField(tag uint16, s string) ifdField {
	data := append([]byte(s), 0)
	return ifdField{tag: tag, typ: dtASCII, count: uint32(len(data)), data: data}
}

// WritePages writes every page and then flushes the file to the underlying
// writer. Nothing is written if any page fails to encode.
func (tw *Writer) WritePages(pages []*Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrMalformed)
	}

	tw.buf.Reset()
	tw.buf.WriteString(leHeader)
	tw.nextPtr = tw.buf.Len()
	tw.buf.Write([]byte{0, 0, 0, 0})

	for i, p := range pages {
		if err := tw.writePage(p); err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
	}

	_, err := tw.w.Write(tw.buf.Bytes())
	return err
}

func (tw *Writer) pad() {
	if tw.buf.Len()%2 != 0 {
		tw.buf.WriteByte(0)
	}
}

func (tw *Writer) writePage(p *Page) error {
	if p.Width <= 0 || p.Height <= 0 || len(p.Pix) != p.Width*p.Height*4 {
		return fmt.Errorf("%w: %dx%d page with %d bytes", ErrMalformed, p.Width, p.Height, len(p.Pix))
	}

	strip, err := tw.encodeStrip(p.Pix)
	if err != nil {
		return err
	}
	tw.pad()
	stripOffset := tw.buf.Len()
	tw.buf.Write(strip)

	fields := []ifdField{
		longField(tImageWidth, uint32(p.Width)),
		longField(tImageLength, uint32(p.Height)),
		shortField(tBitsPerSample, 8, 8, 8, 8),
		shortField(tCompression, uint16(tw.level.compression())),
		shortField(tPhotometricInterpretation, pRGB),
		longField(tStripOffsets, uint32(stripOffset)),
		shortField(tSamplesPerPixel, 4),
		longField(tRowsPerStrip, uint32(p.Height)),
		longField(tStripByteCounts, uint32(len(strip))),
		shortField(tPlanarConfiguration, 1),
		shortField(tExtraSamples, esUnassociatedAlpha),
	}
	if p.HasName {
		fields = append(fields, asciiField(tPageName, p.Name))
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })

	// values that do not fit in an entry go before the IFD
	offsets := make([]uint32, len(fields))
	for i, f := range fields {
		if len(f.data) > 4 {
			tw.pad()
			offsets[i] = uint32(tw.buf.Len())
			tw.buf.Write(f.data)
		}
	}

	tw.pad()
	ifdOffset := tw.buf.Len()
	if uint64(ifdOffset) > 0xFFFFFFFF {
		return fmt.Errorf("%w: file exceeds 4GiB", ErrUnsupported)
	}
	le.PutUint32(tw.buf.Bytes()[tw.nextPtr:], uint32(ifdOffset))

	entry := make([]byte, ifdEntrySize)
	count := make([]byte, 2)
	le.PutUint16(count, uint16(len(fields)))
	tw.buf.Write(count)
	for i, f := range fields {
		for j := range entry {
			entry[j] = 0
		}
		le.PutUint16(entry[0:], f.tag)
		le.PutUint16(entry[2:], f.typ)
		le.PutUint32(entry[4:], f.count)
		if len(f.data) > 4 {
			le.PutUint32(entry[8:], offsets[i])
		} else {
			copy(entry[8:], f.data)
		}
		tw.buf.Write(entry)
	}
	tw.nextPtr = tw.buf.Len()
	tw.buf.Write([]byte{0, 0, 0, 0})
	return nil
}

func (tw *Writer) encodeStrip(pix []uint8) ([]byte, error) {
	if tw.level == NoCompression {
		return pix, nil
	}

	var compressed bytes.Buffer
	z, err := zlib.NewWriterLevel(&compressed, tw.level.zlib())
	if err != nil {
		return nil, err
	}
	if _, err := z.Write(pix); err != nil {
		return nil, err
	}
	if err := z.Close(); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}

// Encode is a convenience wrapper writing pages with the given level.
func Encode(w io.Writer, pages []*Page, level CompressionLevel) error {
	return NewWriter(w, level).WritePages(pages)
}
