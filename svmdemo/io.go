package svmdemo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var pointsHeader = []string{"label", "x", "y"}

// ReadPoints parses label,x,y rows. A leading header row is skipped.
func ReadPoints(r io.Reader) ([]LabeledPoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	out := make([]LabeledPoint, 0, len(rows))
	for i, row := range rows {
		if len(row) == 1 && cleanCell(row[0]) == "" {
			continue
		}
		if i == 0 && isPointsHeader(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("points row %d: want 3 columns, got %d", i+1, len(row))
		}
		label, err := ParseLabel(cleanCell(row[0]))
		if err != nil {
			return nil, fmt.Errorf("points row %d: %w", i+1, err)
		}
		x, err := strconv.Atoi(cleanCell(row[1]))
		if err != nil {
			return nil, fmt.Errorf("points row %d: x: %w", i+1, err)
		}
		y, err := strconv.Atoi(cleanCell(row[2]))
		if err != nil {
			return nil, fmt.Errorf("points row %d: y: %w", i+1, err)
		}
		out = append(out, LabeledPoint{X: x, Y: y, Label: label})
	}
	return out, nil
}

func isPointsHeader(row []string) bool {
	if len(row) < len(pointsHeader) {
		return false
	}
	for i, name := range pointsHeader {
		if !strings.EqualFold(cleanCell(row[i]), name) {
			return false
		}
	}
	return true
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

// WritePoints writes points as label,x,y rows with a header.
func WritePoints(w io.Writer, points []LabeledPoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(pointsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range points {
		row := []string{p.Label.String(), strconv.Itoa(p.X), strconv.Itoa(p.Y)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush points: %w", err)
	}
	return nil
}

// LoadPointsFile reads a points CSV from disk.
func LoadPointsFile(path string) ([]LabeledPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return ReadPoints(f)
}

// SavePointsFile writes a points CSV to disk.
func SavePointsFile(path string, points []LabeledPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := WritePoints(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return errors.New("no image to encode")
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNGFile writes img to path as PNG.
func SavePNGFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
