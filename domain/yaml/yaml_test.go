package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carMetadata = `
class: acceptability
attributes:
  buying: [vhigh, high, med, low]
  acceptability: [unacc, acc, good, vgood]
  doors: [2, 3, 4, 5more]
  safety: [low, med, high]
`

func TestReadSchema(t *testing.T) {
	s, err := ReadSchema([]byte(carMetadata), "")
	require.NoError(t, err)
	assert.Equal(t, "acceptability", s.Class.Name())
	assert.Equal(t, []string{"unacc", "acc", "good", "vgood"}, s.Class.Categories())
	require.Len(t, s.Attributes, 3)
	assert.Equal(t, "buying", s.Attributes[0].Name())
	assert.Equal(t, "doors", s.Attributes[1].Name())
	assert.Equal(t, []string{"2", "3", "4", "5more"}, s.Attributes[1].Categories())
	assert.Equal(t, "safety", s.Attributes[2].Name())
}

func TestReadSchemaClassSelection(t *testing.T) {
	s, err := ReadSchema([]byte(carMetadata), "safety")
	require.NoError(t, err)
	assert.Equal(t, "safety", s.Class.Name())
	assert.Len(t, s.Attributes, 3)

	_, err = ReadSchema([]byte(carMetadata), "colour")
	assert.EqualError(t, err, `class attribute "colour" is not defined`)

	s, err = ReadSchema([]byte("attributes:\n  a: [x, y]\n  c: [p, n]\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "c", s.Class.Name())
	assert.Len(t, s.Attributes, 1)
}

func TestReadSchemaErrors(t *testing.T) {
	_, err := ReadSchema([]byte("class: c\n"), "")
	assert.Error(t, err)
	_, err = ReadSchema([]byte("attributes:\n  a: continuous\n"), "")
	assert.Error(t, err)
	_, err = ReadSchema([]byte("attributes:\n  a: [x, x]\n  c: [p]\n"), "")
	assert.Error(t, err)
	_, err = ReadSchema([]byte("attributes: ["), "")
	assert.Error(t, err)
}

func TestWriteSchemaRoundTrip(t *testing.T) {
	s, err := ReadSchema([]byte(carMetadata), "")
	require.NoError(t, err)
	b, err := WriteSchema(s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "car.yml")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	rs, err := ReadSchemaFromFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, s.Class.String(), rs.Class.String())
	require.Len(t, rs.Attributes, len(s.Attributes))
	for i := range s.Attributes {
		assert.Equal(t, s.Attributes[i].String(), rs.Attributes[i].String())
	}
}
