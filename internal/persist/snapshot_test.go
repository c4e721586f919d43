package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charge(v float64) *float64 { return &v }

func TestAppendWritesOneDocumentPerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	log, err := OpenSnapshotLog(path, ModeTruncate)
	require.NoError(t, err)

	for step := uint64(1); step <= 3; step++ {
		require.NoError(t, log.Append(Record{
			Step: step,
			Entities: []EntityRecord{{
				Acceleration: [3]float64{0, 0, 0},
				Charge:       charge(-1),
				Mass:         2,
				Position:     [3]float64{1, 2, 3},
				Velocity:     [3]float64{0.5, 0, 0},
			}},
		}))
	}
	assert.Equal(t, 3, log.Records())
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 3, strings.Count(content, "---\n"))
	assert.Contains(t, content, "position: [1, 2, 3]")

	var steps []uint64
	require.NoError(t, ReadSnapshotFile(path, func(r Record) error {
		steps = append(steps, r.Step)
		require.Len(t, r.Entities, 1)
		require.NotNil(t, r.Entities[0].Charge)
		assert.Equal(t, -1.0, *r.Entities[0].Charge)
		return nil
	}))
	assert.Equal(t, []uint64{1, 2, 3}, steps)
}

func TestChargeOmittedWhenNotModelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	log, err := OpenSnapshotLog(path, "")
	require.NoError(t, err)
	require.NoError(t, log.Append(Record{Step: 1, Entities: []EntityRecord{{Mass: 1}}}))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "charge")
}

func TestAppendModeKeepsExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	for i := 0; i < 2; i++ {
		log, err := OpenSnapshotLog(path, ModeAppend)
		require.NoError(t, err)
		require.NoError(t, log.Append(Record{Step: uint64(i + 1)}))
		require.NoError(t, log.Close())
	}
	n := 0
	require.NoError(t, ReadSnapshotFile(path, func(Record) error { n++; return nil }))
	assert.Equal(t, 2, n)
}

func TestOpenFailsForMissingDirectory(t *testing.T) {
	_, err := OpenSnapshotLog(filepath.Join(t.TempDir(), "missing", "out.yaml"), ModeTruncate)
	assert.Error(t, err)
}

func TestOpenRejectsUnknownMode(t *testing.T) {
	_, err := OpenSnapshotLog(filepath.Join(t.TempDir(), "out.yaml"), Mode("rotate"))
	assert.ErrorContains(t, err, "rotate")
}
