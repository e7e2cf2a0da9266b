package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Caption is one filtered row of the caption table. Start and End keep the
// raw cell text: clip keys are formed from the cells as written, and
// reformatting them would break the join against the feature store.
type Caption struct {
	VideoID string
	Start   string
	End     string
	Text    string
}

// ClipID returns the key joining this caption to its feature sequence.
func (c Caption) ClipID() string {
	return c.VideoID + "_" + c.Start + "_" + c.End
}

// CaptionTable holds the filtered caption rows of one CSV file: only rows
// with Language "English" and a non-empty Description survive. Dropping the
// rest is silent; it is the documented behavior of the pipeline, not an
// error condition.
type CaptionTable struct {
	rows   []Caption
	byClip map[string][]string
	clips  []string // first-seen clip order
}

// ReadCaptions loads and filters a caption CSV. The file must carry a
// header row with at least the VideoID, Start, End, Language and
// Description columns, in any order. Open and parse failures wrap
// ErrDataSource.
func ReadCaptions(path string) (*CaptionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open captions %s: %v", ErrDataSource, path, err)
	}
	defer f.Close()

	table, err := parseCaptions(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse captions %s: %v", ErrDataSource, path, err)
	}
	return table, nil
}

func parseCaptions(r io.Reader) (*CaptionTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows happen; short ones are filtered below

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range []string{"VideoID", "Start", "End", "Language", "Description"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %s", name)
		}
	}

	table := &CaptionTable{byClip: make(map[string][]string)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %v", err)
		}

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return record[idx]
		}

		if field("Language") != "English" || field("Description") == "" {
			continue
		}

		caption := Caption{
			VideoID: field("VideoID"),
			Start:   field("Start"),
			End:     field("End"),
			Text:    field("Description"),
		}
		table.rows = append(table.rows, caption)

		clip := caption.ClipID()
		if _, seen := table.byClip[clip]; !seen {
			table.clips = append(table.clips, clip)
		}
		table.byClip[clip] = append(table.byClip[clip], caption.Text)
	}

	return table, nil
}

// Len returns the number of filtered caption rows.
func (t *CaptionTable) Len() int {
	return len(t.rows)
}

// Texts returns the caption texts of all filtered rows in file order.
// This is the corpus a vocabulary is built from.
func (t *CaptionTable) Texts() []string {
	texts := make([]string, len(t.rows))
	for i, row := range t.rows {
		texts[i] = row.Text
	}
	return texts
}

// ForClip returns the caption texts of one clip in file order, or nil when
// the clip has no filtered captions.
func (t *CaptionTable) ForClip(clip string) []string {
	return t.byClip[clip]
}

// Clips returns the clip keys in first-seen file order.
func (t *CaptionTable) Clips() []string {
	return t.clips
}
