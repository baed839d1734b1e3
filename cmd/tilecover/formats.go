package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/eak1mov/go-tilecover/index"
	"github.com/eak1mov/go-tilecover/mb"
	"github.com/eak1mov/go-tilecover/pm"
	"github.com/eak1mov/go-tilecover/tile"
	"github.com/eak1mov/go-tilecover/xyz"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch {
	case strings.HasSuffix(filePath, ".mbtiles"):
		return "mbtiles"
	case strings.HasSuffix(filePath, ".pmtiles"):
		return "pmtiles"
	case strings.HasSuffix(filePath, ".index"):
		return "index"
	case strings.Contains(filePath, "{z}"):
		return "xyz"
	}
	return "geojson"
}

// dataPath returns the data file path of an index: explicit or next to the index.
func dataPath(dataPath, indexPath string) string {
	if dataPath != "" {
		return dataPath
	}
	return strings.TrimSuffix(indexPath, ".index") + ".data"
}

// openWriter returns a sink for the given tileset format.
func openWriter(format, outputPath, outputDataPath string, logger *slog.Logger) (tile.Writer, error) {
	switch format {
	case "mbtiles":
		return mb.NewWriter(outputPath, mb.WithLogger(logger))
	case "pmtiles":
		return pm.NewWriter(outputPath, pm.WithLogger(logger))
	case "xyz":
		return xyz.NewWriter(outputPath)
	case "index":
		return index.NewWriter(outputPath, dataPath(outputDataPath, outputPath))
	}
	return nil, fmt.Errorf("invalid output format: %q", format)
}

func openReader(format, inputPath, inputDataPath string) (tile.Visitor, error) {
	switch format {
	case "mbtiles":
		return mb.NewReader(inputPath)
	case "pmtiles":
		return pm.NewReader(inputPath)
	case "xyz":
		return xyz.NewReader(inputPath)
	case "index":
		return index.NewReader(inputPath, dataPath(inputDataPath, inputPath))
	}
	return nil, fmt.Errorf("invalid input format: %q", format)
}

func closeIfCloser(v any) {
	if closer, ok := v.(io.Closer); ok {
		closer.Close()
	}
}

// writeJSON writes v to filePath, or to stdout when filePath is empty or "-".
func writeJSON(filePath string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if filePath == "" || filePath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
