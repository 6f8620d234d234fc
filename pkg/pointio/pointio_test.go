package pointio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segmentation3d/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"cells.yaml", FormatYAML},
		{"cells.YML", FormatYAML},
		{"cells.csv", FormatText},
		{"dir/cells.txt", FormatText},
		{"cells.xyz", FormatText},
	}
	for _, tc := range tests {
		got, err := FormatForPath(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}

	_, err := FormatForPath("cells.stl")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadText(t *testing.T) {
	input := `# nucleus 7
x,y,z
1, 2, 3

-4.5;0;1e2
  7	8	9  extra
`
	pc, err := Read(strings.NewReader(input), FormatText)
	require.NoError(t, err)
	assert.Equal(t, []r3.Vector{
		{X: 1, Y: 2, Z: 3},
		{X: -4.5, Y: 0, Z: 100},
		{X: 7, Y: 8, Z: 9},
	}, pc.Vectors())
}

func TestReadTextErrors(t *testing.T) {
	tests := map[string]string{
		"short row":      "1,2,3\n4,5\n",
		"bad number":     "1,2,3\n4,five,6\n",
		"late header":    "1,2,3\nx,y,z\n",
		"not finite":     "1,2,NaN\n",
		"infinite":       "1,+Inf,3\n",
		"numeric header": "-x,y,z\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(input), FormatText)
			assert.Error(t, err)
		})
	}
}

func TestReadYAML(t *testing.T) {
	input := `
name: vesicle
points:
  - {x: 0.5, y: -1, z: 2}
  - {x: 3, y: 4, z: 5}
`
	pc, err := Read(strings.NewReader(input), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "vesicle", pc.Name)
	assert.Len(t, pc.Points, 2)

	_, err = Read(strings.NewReader("points: {x: ["), FormatYAML)
	assert.Error(t, err)
}

func TestReadEmpty(t *testing.T) {
	for _, format := range []Format{FormatText, FormatYAML} {
		pc, err := Read(strings.NewReader(""), format)
		require.NoError(t, err)
		assert.Empty(t, pc.Points)
	}
}

func TestLoadNamesCloudAfterFile(t *testing.T) {
	path := writeFile(t, "cell.csv", "1,0,0\n0,1,0\n0,0,1\n")

	pc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cell.csv", pc.Name)
	assert.Len(t, pc.Points, 3)
}

func TestLoadKeepsYAMLName(t *testing.T) {
	cloud := models.NewPointCloud("membrane", []r3.Vector{{X: 1}, {Y: 1}})
	path := writeFile(t, "cloud.yaml", "name: membrane\npoints:\n  - {x: 1, y: 0, z: 0}\n  - {x: 0, y: 1, z: 0}\n")

	pc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cloud, pc)
}

func TestLoadAll(t *testing.T) {
	a := writeFile(t, "a.txt", "1 2 3\n")
	b := writeFile(t, "b.yml", "points:\n  - {x: 4, y: 5, z: 6}\n")

	clouds, err := LoadAll([]string{a, b})
	require.NoError(t, err)
	require.Len(t, clouds, 2)
	assert.Equal(t, "a.txt", clouds[0].Name)
	assert.Equal(t, "b.yml", clouds[1].Name)

	_, err = LoadAll([]string{a, filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)

	_, err = LoadAll([]string{a, "points.json"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
