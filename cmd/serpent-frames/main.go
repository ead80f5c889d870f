package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/serpent-arcade/serpent/pkg/log"
	renderimage "github.com/serpent-arcade/serpent/pkg/render/image"
	"github.com/serpent-arcade/serpent/pkg/replay"
	"github.com/serpent-arcade/serpent/pkg/version"
)

func main() {
	replayPath := flag.String("replay", "serpent.replay", "Replay file to render")
	outDir := flag.String("out", "frames", "Output directory for PNG frames")
	cellSize := flag.Int("cell-size", 16, "Pixel size of one board cell")
	side := flag.Int("side", 0, "Scale frames to this side length in pixels (0 keeps the native size)")
	every := flag.Int("every", 1, "Render every Nth snapshot")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)

	log.Info("Starting serpent-frames version %s", version.Get())

	f, err := os.Open(*replayPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to open replay file: %v", err))
	}
	defer f.Close()

	reader, err := replay.NewReader(f)
	if err != nil {
		panic(fmt.Sprintf("Failed to read replay: %v", err))
	}
	defer reader.Close()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create output directory: %v", err))
	}

	renderer := renderimage.NewRenderer(renderimage.NewRendererOptions{
		CellSize: *cellSize,
	})

	seen, written := 0, 0
	for {
		snap, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(fmt.Sprintf("Failed to decode snapshot: %v", err))
		}
		if *every > 1 && seen%*every != 0 {
			seen++
			continue
		}
		seen++

		frame := renderer.RenderFrame(snap)
		if *side > 0 {
			frame = renderer.RenderScaled(snap, *side)
		}

		name := filepath.Join(*outDir, fmt.Sprintf("frame-%06d.png", written))
		if err := imaging.Save(frame, name); err != nil {
			panic(fmt.Sprintf("Failed to save frame: %v", err))
		}
		written++
	}

	log.Info("Wrote %d frames to %s", written, *outDir)
}
