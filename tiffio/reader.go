package tiffio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Reader decodes every page of a TIFF file. The input is read into memory
// first; IFD and strip offsets are then resolved against that buffer.
type Reader struct {
	r     io.Reader
	data  []byte
	order binary.ByteOrder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

// ReadPages returns the pages in file order.
func (tr *Reader) ReadPages() ([]*Page, error) {
	data, err := io.ReadAll(tr.r)
	if err != nil {
		return nil, err
	}
	tr.data = data

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrMalformed)
	}
	switch string(data[0:4]) {
	case leHeader:
		tr.order = binary.LittleEndian
	case beHeader:
		tr.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}

	var pages []*Page
	seen := make(map[uint32]bool)
	offset := tr.order.Uint32(data[4:8])
	for offset != 0 {
		if seen[offset] {
			return nil, fmt.Errorf("%w: IFD loop at offset %d", ErrMalformed, offset)
		}
		if len(pages) >= maxPages {
			return nil, fmt.Errorf("%w: more than %d pages", ErrUnsupported, maxPages)
		}
		seen[offset] = true

		entries, next, err := tr.readIFD(offset)
		if err != nil {
			return nil, err
		}
		page, err := tr.decodePage(entries)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", len(pages), err)
		}
		pages = append(pages, page)
		offset = next
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrMalformed)
	}
	return pages, nil
}

func (tr *Reader) slice(offset uint64, n uint64) ([]byte, error) {
	if offset+n > uint64(len(tr.data)) {
		return nil, fmt.Errorf("%w: offset %d+%d beyond end of file", ErrMalformed, offset, n)
	}
	return tr.data[offset : offset+n], nil
}

func (tr *Reader) readIFD(offset uint32) (map[uint16]entry, uint32, error) {
	b, err := tr.slice(uint64(offset), 2)
	if err != nil {
		return nil, 0, err
	}
	n := uint64(tr.order.Uint16(b))
	b, err = tr.slice(uint64(offset)+2, n*ifdEntrySize+4)
	if err != nil {
		return nil, 0, err
	}

	entries := make(map[uint16]entry, n)
	for i := uint64(0); i < n; i++ {
		raw := b[i*ifdEntrySize : (i+1)*ifdEntrySize]
		e := entry{
			tag:   tr.order.Uint16(raw[0:2]),
			typ:   tr.order.Uint16(raw[2:4]),
			count: tr.order.Uint32(raw[4:8]),
		}
		size := uint64(typeSize(e.typ)) * uint64(e.count)
		if size == 0 {
			// unknown types are skipped, they are never needed for decoding
			continue
		}
		if size <= 4 {
			e.value = raw[8 : 8+size]
		} else {
			e.value, err = tr.slice(uint64(tr.order.Uint32(raw[8:12])), size)
			if err != nil {
				return nil, 0, fmt.Errorf("tag %d: %w", e.tag, err)
			}
		}
		entries[e.tag] = e
	}
	return entries, tr.order.Uint32(b[n*ifdEntrySize:]), nil
}

// uints decodes BYTE, SHORT and LONG values.
func (tr *Reader) uints(e entry) ([]uint32, error) {
	values := make([]uint32, e.count)
	for i := range values {
		switch e.typ {
		case dtByte, dtUndefined:
			values[i] = uint32(e.value[i])
		case dtShort:
			values[i] = uint32(tr.order.Uint16(e.value[2*i:]))
		case dtLong:
			values[i] = tr.order.Uint32(e.value[4*i:])
		default:
			return nil, fmt.Errorf("%w: tag %d has type %d", ErrMalformed, e.tag, e.typ)
		}
	}
	return values, nil
}

func (tr *Reader) uintsOr(entries map[uint16]entry, tag uint16, def uint32) ([]uint32, error) {
	e, ok := entries[tag]
	if !ok {
		return []uint32{def}, nil
	}
	values, err := tr.uints(e)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: tag %d is empty", ErrMalformed, tag)
	}
	return values, nil
}

func (tr *Reader) single(entries map[uint16]entry, tag uint16, def uint32) (uint32, error) {
	values, err := tr.uintsOr(entries, tag, def)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

func (tr *Reader) decodePage(entries map[uint16]entry) (*Page, error) {
	if _, ok := entries[tImageWidth]; !ok {
		return nil, fmt.Errorf("%w: missing ImageWidth", ErrMalformed)
	}
	if _, ok := entries[tImageLength]; !ok {
		return nil, fmt.Errorf("%w: missing ImageLength", ErrMalformed)
	}

	var width, height, compression, photometric, spp, rps, planar, predictor uint32
	for _, f := range []struct {
		tag uint16
		def uint32
		dst *uint32
	}{
		{tImageWidth, 0, &width},
		{tImageLength, 0, &height},
		{tCompression, cNone, &compression},
		{tPhotometricInterpretation, pRGB, &photometric},
		{tSamplesPerPixel, 1, &spp},
		{tRowsPerStrip, 0xFFFFFFFF, &rps},
		{tPlanarConfiguration, 1, &planar},
		{tPredictor, prNone, &predictor},
	} {
		v, err := tr.single(entries, f.tag, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d image", ErrMalformed, width, height)
	}
	if uint64(width)*uint64(height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d image is too large", ErrUnsupported, width, height)
	}
	if photometric != pRGB {
		return nil, fmt.Errorf("%w: photometric interpretation %d", ErrUnsupported, photometric)
	}
	if spp != 3 && spp != 4 {
		return nil, fmt.Errorf("%w: %d samples per pixel", ErrUnsupported, spp)
	}
	if planar != 1 {
		return nil, fmt.Errorf("%w: planar configuration %d", ErrUnsupported, planar)
	}
	if compression != cNone && compression != cDeflate && compression != cDeflateOld {
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupported, compression)
	}
	if predictor != prNone && predictor != prHorizontal {
		return nil, fmt.Errorf("%w: predictor %d", ErrUnsupported, predictor)
	}
	bps, err := tr.uintsOr(entries, tBitsPerSample, 1)
	if err != nil {
		return nil, err
	}
	for _, b := range bps {
		if b != 8 {
			return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, b)
		}
	}

	stripOffsets, err := tr.uintsOr(entries, tStripOffsets, 0)
	if err != nil {
		return nil, err
	}
	stripCounts, err := tr.uintsOr(entries, tStripByteCounts, 0)
	if err != nil {
		return nil, err
	}
	if _, ok := entries[tStripOffsets]; !ok || len(stripOffsets) != len(stripCounts) {
		return nil, fmt.Errorf("%w: strip offsets and byte counts disagree", ErrMalformed)
	}
	if rps == 0 || rps > height {
		rps = height
	}
	if want := (height + rps - 1) / rps; uint32(len(stripOffsets)) < want {
		return nil, fmt.Errorf("%w: %d strips for %d rows", ErrMalformed, len(stripOffsets), height)
	}

	// strips are located and sized against the file before any pixel
	// buffer is allocated
	rowBytes := int(width) * int(spp)
	var strips [][]byte
	var available uint64
	for i := 0; uint32(i)*rps < height; i++ {
		src, err := tr.slice(uint64(stripOffsets[i]), uint64(stripCounts[i]))
		if err != nil {
			return nil, err
		}
		strips = append(strips, src)
		available += uint64(len(src))
	}
	if compression == cDeflate || compression == cDeflateOld {
		available *= maxDeflateRatio
	}
	if need := uint64(rowBytes) * uint64(height); available < need {
		return nil, fmt.Errorf("%w: strips hold %d bytes, %dx%d image needs %d",
			ErrMalformed, available, width, height, need)
	}

	samples := make([]uint8, rowBytes*int(height))
	for i, src := range strips {
		rows := int(rps)
		if remaining := int(height) - i*int(rps); remaining < rows {
			rows = remaining
		}
		dst := samples[i*int(rps)*rowBytes : (i*int(rps)+rows)*rowBytes]
		if err := decodeStrip(dst, src, compression); err != nil {
			return nil, fmt.Errorf("strip %d: %w", i, err)
		}
	}

	if predictor == prHorizontal {
		for y := 0; y < int(height); y++ {
			row := samples[y*rowBytes : (y+1)*rowBytes]
			for x := int(spp); x < rowBytes; x++ {
				row[x] += row[x-int(spp)]
			}
		}
	}

	page := NewPage(int(width), int(height))
	if spp == 4 {
		copy(page.Pix, samples)
	} else {
		for i, j := 0, 0; i < len(samples); i, j = i+3, j+4 {
			page.Pix[j+0] = samples[i+0]
			page.Pix[j+1] = samples[i+1]
			page.Pix[j+2] = samples[i+2]
			page.Pix[j+3] = 0xFF
		}
	}

	if e, ok := entries[tPageName]; ok {
		switch e.typ {
		case dtASCII, dtByte, dtUndefined:
			page.Name = string(bytes.TrimRight(e.value, "\x00"))
			page.HasName = true
		default:
			return nil, fmt.Errorf("%w: PageName has type %d", ErrMalformed, e.typ)
		}
	}
	return page, nil
}

func decodeStrip(dst []byte, src []byte, compression uint32) error {
	switch compression {
	case cNone:
		if len(src) < len(dst) {
			return fmt.Errorf("%w: strip has %d bytes, want %d", ErrMalformed, len(src), len(dst))
		}
		copy(dst, src)
		return nil
	case cDeflate, cDeflateOld:
		z, err := zlib.NewReader(bytes.NewReader(src))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		defer z.Close()
		if _, err := io.ReadFull(z, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil
	}
	return fmt.Errorf("%w: compression %d", ErrUnsupported, compression)
}

// Decode is a convenience wrapper reading every page from r.
func Decode(r io.Reader) ([]*Page, error) {
	return NewReader(r).ReadPages()
}
