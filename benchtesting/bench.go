package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kpfaulkner/annotiff/canvas"
	"github.com/kpfaulkner/annotiff/core"
	"github.com/kpfaulkner/annotiff/layer"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// synthetic builds a size x size image with stripes of overlapping layers.
func synthetic(size int32, layers int) (*core.AnnotatedImage, error) {
	bg, err := canvas.NewCanvas(size, size, canvas.RGB)
	if err != nil {
		return nil, err
	}
	for y := int32(0); y < size; y++ {
		for x := int32(0); x < size; x++ {
			bg.Set(y, x, uint8(x), uint8(y), uint8(x^y))
		}
	}
	img, err := core.NewAnnotatedImage(bg)
	if err != nil {
		return nil, err
	}

	for i := 0; i < layers; i++ {
		mask := layer.NewMask(size, size)
		for y := int32(0); y < size; y++ {
			for x := int32(0); x < size; x++ {
				if (x+y+int32(i)*7)%int32(layers+3) < 3 {
					mask.Set(y, x, true)
				}
			}
		}
		color := layer.Color{R: uint8(i * 40), G: uint8(255 - i*30), B: uint8(i * 90)}
		if _, err := img.AddLayerWithMask(fmt.Sprintf("layer%d", i), mask, color); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func main() {
	size := flag.Int("size", 2048, "image width and height")
	layers := flag.Int("layers", 8, "number of layers")
	count := flag.Int("n", 3, "iterations")
	dir := flag.String("dir", os.TempDir(), "directory for the output files")
	flag.Parse()

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	defer p.Stop()

	img, err := synthetic(int32(*size), *layers)
	if err != nil {
		log.Errorf("Error building image: %v\n", err)
		return
	}
	tiffFile := filepath.Join(*dir, "annotiff-bench.tiff")
	pngFile := filepath.Join(*dir, "annotiff-bench.png")

	for i := 0; i < *count; i++ {
		start := time.Now()
		if err := img.Save(tiffFile, nil); err != nil {
			log.Errorf("Error saving: %v\n", err)
			return
		}
		fmt.Printf("save took %d ms\n", time.Since(start).Milliseconds())

		start = time.Now()
		loaded, err := core.Load(tiffFile, nil)
		if err != nil {
			log.Errorf("Error loading: %v\n", err)
			return
		}
		fmt.Printf("load took %d ms\n", time.Since(start).Milliseconds())

		start = time.Now()
		out, err := loaded.Render(nil, 0.5)
		if err != nil {
			log.Errorf("Error rendering: %v\n", err)
			return
		}
		fmt.Printf("render took %d ms\n", time.Since(start).Milliseconds())

		buf := new(bytes.Buffer)
		if err := png.Encode(buf, out.ToImage()); err != nil {
			log.Fatalf("boomage %v", err)
		}
		if err := os.WriteFile(pngFile, buf.Bytes(), 0666); err != nil {
			log.Fatalf("boomage %v", err)
		}
	}
}
