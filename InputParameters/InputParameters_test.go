package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	data := []byte(`
Title: "Photonic Crystal Guide"
Frequency: 4.5
Period: 2.
Height: 1.
NCells: 6
BasisSize: 4
MeshNx: 32
MeshNy: 16
Orientation: -1
Dissipation: 0.25
NFloquet: 33
OutputDir: out
BCs:
  xmin:
    normal: 0.
  xmax:
    normal: 0.
Resolutions: [8, 16, 32]
`)
	sp := DefaultParameters()
	err := sp.Parse(data)
	assert.NoError(t, err)
	assert.Equal(t, "Photonic Crystal Guide", sp.Title)
	assert.Equal(t, 4.5, sp.Frequency)
	assert.Equal(t, 2.0, sp.Period)
	assert.Equal(t, 6, sp.NCells)
	assert.Equal(t, -1, sp.Orientation)
	assert.Equal(t, 33, sp.NFloquet)
	assert.Equal(t, []int{8, 16, 32}, sp.Resolutions)
	assert.Equal(t, 0.0, sp.BCs["xmin"]["normal"])
	sp.Print()
}

func TestParseDefaults(t *testing.T) {
	// Fields absent from the file keep their default values
	sp := DefaultParameters()
	err := sp.Parse([]byte(`Frequency: 7.`))
	assert.NoError(t, err)
	assert.Equal(t, 7.0, sp.Frequency)
	assert.Equal(t, 1.0, sp.Period)
	assert.Equal(t, 4, sp.NCells)
	assert.Equal(t, 1, sp.Orientation)
}

func TestValidate(t *testing.T) {
	for _, bad := range []string{
		`Frequency: -1.`,
		`Period: 0.`,
		`Orientation: 2`,
		`BasisSize: 0`,
		`NCells: -3`,
	} {
		sp := DefaultParameters()
		assert.Error(t, sp.Parse([]byte(bad)), bad)
	}
}
