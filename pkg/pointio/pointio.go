// Package pointio loads point sets from YAML documents and x,y,z text files.
package pointio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"segmentation3d/internal/models"
)

// Format is an on-disk point set format
type Format int

const (
	// FormatText holds one x,y,z row per line, separated by commas,
	// semicolons or whitespace. Blank lines, '#' comments and a leading
	// non-numeric header row are skipped.
	FormatText Format = iota

	// FormatYAML is a models.PointCloud document
	FormatYAML
)

// ErrUnknownFormat is returned for files whose extension names no known format
var ErrUnknownFormat = errors.New("unknown point file format")

// FormatForPath picks the format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv", ".txt", ".xyz":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a point set from path. A cloud without a name is named after
// the file.
func Load(path string) (*models.PointCloud, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open point file: %w", err)
	}
	defer file.Close()

	pc, err := Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if pc.Name == "" {
		pc.Name = filepath.Base(path)
	}
	return pc, nil
}

// LoadAll loads every path in order, stopping at the first failure
func LoadAll(paths []string) ([]*models.PointCloud, error) {
	clouds := make([]*models.PointCloud, 0, len(paths))
	for _, path := range paths {
		pc, err := Load(path)
		if err != nil {
			return nil, err
		}
		clouds = append(clouds, pc)
	}
	return clouds, nil
}

// Read decodes a point set in the given format
func Read(r io.Reader, format Format) (*models.PointCloud, error) {
	switch format {
	case FormatYAML:
		return readYAML(r)
	case FormatText:
		return readText(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}

func readYAML(r io.Reader) (*models.PointCloud, error) {
	var pc models.PointCloud
	if err := yaml.NewDecoder(r).Decode(&pc); err != nil {
		if errors.Is(err, io.EOF) {
			return &pc, nil
		}
		return nil, fmt.Errorf("error parsing point document: %w", err)
	}
	return &pc, nil
}

func splitRow(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

func readText(r io.Reader) (*models.PointCloud, error) {
	scanner := bufio.NewScanner(r)
	pc := &models.PointCloud{}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitRow(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates, got %d", lineNo, len(fields))
		}

		var coords [3]float64
		var parseErr error
		for k := 0; k < 3; k++ {
			coords[k], parseErr = strconv.ParseFloat(fields[k], 64)
			if parseErr != nil {
				break
			}
		}
		if parseErr != nil {
			// Header row such as "x,y,z"
			if len(pc.Points) == 0 && !startsNumeric(fields[0]) {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, parseErr)
		}
		for k, v := range coords {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: coordinate %d is not finite", lineNo, k)
			}
		}

		pc.Points = append(pc.Points, models.Point{X: coords[0], Y: coords[1], Z: coords[2]})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading point file: %w", err)
	}

	return pc, nil
}

func startsNumeric(field string) bool {
	if field == "" {
		return false
	}
	switch c := field[0]; {
	case c >= '0' && c <= '9', c == '-', c == '+', c == '.':
		return true
	}
	return false
}
