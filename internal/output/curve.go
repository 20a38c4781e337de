// Package output writes sampled curves as .dat tables, PNG plots and
// interactive HTML charts.
package output

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/advection/internal/fsutil"
)

// Curve is a named sequence of (x, y) samples.
type Curve struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// Len returns the number of samples.
func (c Curve) Len() int { return len(c.X) }

// XY implements plotter.XYer.
func (c Curve) XY(i int) (float64, float64) { return c.X[i], c.Y[i] }

func (c Curve) validate() error {
	if c.Name == "" {
		return fmt.Errorf("curve has no name")
	}
	if len(c.X) != len(c.Y) {
		return fmt.Errorf("curve %s: %d x values but %d y values", c.Name, len(c.X), len(c.Y))
	}
	return nil
}

// DatPath returns the file a curve is dumped to inside dir.
func DatPath(dir, name string) string {
	return filepath.Join(dir, name+".dat")
}

// WriteDat writes c to <dir>/<name>.dat, one "x y" line per sample,
// creating dir if needed. It returns the written path.
func WriteDat(fs fsutil.FileSystem, dir string, c Curve) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := DatPath(dir, c.Name)
	f, err := fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for i := range c.X {
		w.WriteString(strconv.FormatFloat(c.X[i], 'g', -1, 64))
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(c.Y[i], 'g', -1, 64))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// ReadDat parses a file written by WriteDat. The curve is named after the
// file without its extension. Blank lines and lines starting with # are
// skipped.
func ReadDat(fs fsutil.FileSystem, path string) (Curve, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return Curve{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	c := Curve{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return Curve{}, fmt.Errorf("%s:%d: want 2 columns, got %d", path, line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Curve{}, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Curve{}, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		c.X = append(c.X, x)
		c.Y = append(c.Y, y)
	}
	if err := sc.Err(); err != nil {
		return Curve{}, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return c, nil
}
