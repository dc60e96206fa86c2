// Package dataset implements the columnar reference-dataset model used
// by the differential queries: loading Arrow IPC
// files keyed by H3 cell, and building per-cell object-store paths from
// a configured key pattern.
package dataset

import (
	"regexp"
	"strconv"

	"github.com/lintang-b-s/rout3go/internal/h3cell"
)

var (
	reDataResolution = regexp.MustCompile(`\{\s*data_h3_resolution\s*\}`)
	reFileResolution = regexp.MustCompile(`\{\s*file_h3_resolution\s*\}`)
	reH3Cell         = regexp.MustCompile(`\{\s*h3cell\s*\}`)
)

// BuildPath fills a dataset key pattern (e.g.
// "population/{file_h3_resolution}/{h3cell}.arrow") with concrete
// values for one file.
func BuildPath(keyPattern string, dataH3Resolution, fileH3Resolution int, cell h3cell.Cell) string {
	out := reDataResolution.ReplaceAllString(keyPattern, strconv.Itoa(dataH3Resolution))
	out = reFileResolution.ReplaceAllString(out, strconv.Itoa(fileH3Resolution))
	out = reH3Cell.ReplaceAllString(out, cell.String())
	return out
}

// FileCells downsamples the requested cells to the dataset's file
// resolution and deduplicates, giving the distinct set of files that
// must be fetched to cover them.
func FileCells(cells []h3cell.Cell, fileH3Resolution int) []h3cell.Cell {
	seen := make(map[h3cell.Cell]struct{}, len(cells))
	out := make([]h3cell.Cell, 0, len(cells))
	for _, c := range cells {
		parent, err := c.Parent(fileH3Resolution)
		if err != nil {
			continue
		}
		if _, ok := seen[parent]; ok {
			continue
		}
		seen[parent] = struct{}{}
		out = append(out, parent)
	}
	return out
}
