package dataset

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// writeCaptionsCSV writes a caption table fixture and returns its path.
func writeCaptionsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeFeaturesNPZ writes an .npz feature archive fixture and returns its
// path. Members are written in sorted key order as float64 .npy arrays,
// which the store converts down to float32.
func writeFeaturesNPZ(t *testing.T, members map[string]*mat.Dense) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.npz")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	keys := make([]string, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	zw := zip.NewWriter(f)
	for _, key := range keys {
		w, err := zw.Create(key + ".npy")
		require.NoError(t, err)
		require.NoError(t, npyio.Write(w, members[key]))
	}
	require.NoError(t, zw.Close())
	return path
}

// seqDense builds an r x c matrix whose element (i, j) is i*c+j, so tests
// can trace values back to their position.
func seqDense(r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = float64(i)
	}
	return mat.NewDense(r, c, data)
}

const captionsFixture = `VideoID,Start,End,Language,Description
v1,0,10,English,A cat plays with a ball
v1,0,10,English,The cat is playing
v1,0,10,French,Un chat joue
v2,3,9,English,
v3,5,8,English,A dog runs in the park
`
