package core

import (
	"bytes"
	"testing"

	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/testcommon"
)

func benchImage(b *testing.B) *AnnotatedImage {
	bg := testcommon.SolidBackground(b, 512, 512, 40, 80, 120)
	img, err := NewAnnotatedImage(bg)
	if err != nil {
		b.Fatal(err)
	}
	for i := int32(0); i < 4; i++ {
		mask := testcommon.MaskFunc(512, 512, func(y, x int32) bool { return (x+y+i)%5 == 0 })
		if _, err := img.AddLayerWithMask(string(rune('a'+i)), mask, layer.Color{R: uint8(i * 60)}); err != nil {
			b.Fatal(err)
		}
	}
	return img
}

func BenchmarkRender(b *testing.B) {
	img := benchImage(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := img.Render(nil, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeDecode(b *testing.B) {
	img := benchImage(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := NewEncoder(&buf, nil).Encode(img); err != nil {
			b.Fatal(err)
		}
		if _, err := Decode(&buf, nil); err != nil {
			b.Fatal(err)
		}
	}
}
