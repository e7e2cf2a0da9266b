package dataset

import (
	"archive/zip"
	"fmt"
	"sort"
	"strings"

	"github.com/sbinet/npyio"
)

// FeatureStore maps clip keys to 2-D frame feature arrays, loaded eagerly
// from an .npz archive (a zip of .npy members, one per clip, member name =
// clip key). Immutable after Open, so any number of readers may share it.
type FeatureStore struct {
	features map[string][][]float32
	ids      []string
}

// OpenFeatureStore reads a whole .npz archive into memory. Members must be
// 2-D float32 or float64 arrays in C order; float64 data is converted down,
// matching the pipeline's float32 batch dtype. Failures wrap ErrDataSource.
func OpenFeatureStore(path string) (*FeatureStore, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open features %s: %v", ErrDataSource, path, err)
	}
	defer zr.Close()

	store := &FeatureStore{features: make(map[string][][]float32, len(zr.File))}
	for _, member := range zr.File {
		frames, err := readMember(member)
		if err != nil {
			return nil, fmt.Errorf("%w: features %s, member %s: %v", ErrDataSource, path, member.Name, err)
		}
		key := strings.TrimSuffix(member.Name, ".npy")
		store.features[key] = frames
		store.ids = append(store.ids, key)
	}

	// Map iteration order is randomized; pairing and tests need a stable
	// enumeration, so keys are exposed sorted.
	sort.Strings(store.ids)
	return store, nil
}

func readMember(member *zip.File) ([][]float32, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r, err := npyio.NewReader(rc)
	if err != nil {
		return nil, err
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected a 2-D array, got shape %v", shape)
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("fortran-order arrays are not supported")
	}
	rows, cols := shape[0], shape[1]

	var flat []float32
	switch dtype := r.Header.Descr.Type; {
	case strings.HasSuffix(dtype, "f4"):
		if err := r.Read(&flat); err != nil {
			return nil, err
		}
	case strings.HasSuffix(dtype, "f8"):
		var raw []float64
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		flat = make([]float32, len(raw))
		for i, v := range raw {
			flat[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype %q", dtype)
	}

	if len(flat) != rows*cols {
		return nil, fmt.Errorf("shape %v promises %d values, member holds %d", shape, rows*cols, len(flat))
	}

	frames := make([][]float32, rows)
	for i := range frames {
		frames[i] = flat[i*cols : (i+1)*cols]
	}
	return frames, nil
}

// IDs returns all clip keys in sorted order.
func (s *FeatureStore) IDs() []string {
	return s.ids
}

// Get returns the frame sequence for a clip key and whether the key exists.
// The returned slices are shared and must be treated as read-only.
func (s *FeatureStore) Get(id string) ([][]float32, bool) {
	frames, ok := s.features[id]
	return frames, ok
}

// Len returns the number of clips in the store.
func (s *FeatureStore) Len() int {
	return len(s.ids)
}
