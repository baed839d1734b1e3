package internal

import (
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tilecover/cover"
	"github.com/paulmach/orb"
)

// GeometryCases yields every *.geojson fixture in dir, decoded, keyed by file name.
func GeometryCases(t *testing.T, dir string) iter.Seq2[string, orb.Geometry] {
	return func(yield func(string, orb.Geometry) bool) {
		t.Helper()

		paths, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) == 0 {
			t.Fatalf("no fixtures found in %v", dir)
		}

		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			geometry, err := cover.UnmarshalGeometry(data)
			if err != nil {
				t.Fatalf("UnmarshalGeometry(%v) failed: %v", path, err)
			}
			if !yield(filepath.Base(path), geometry) {
				return
			}
		}
	}
}
