// Copyright (C) 2026 Rasqal Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package rowsource

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/gpicchiarelli/rasqal/row"
	"github.com/klauspost/compress/zstd"
)

// spillWriter streams rows to a zstd-compressed temporary file instead
// of holding them in a Go slice. The sort handler uses it once the
// number of rows still waiting to have their order key computed
// crosses its SpillThreshold field, bounding the pre-sort read buffer's resident set
// at the cost of a compress/decompress round trip.
type spillWriter struct {
	f  *os.File
	zw *zstd.Encoder
	gw *gob.Encoder
	n  int
}

func newSpillWriter() (*spillWriter, error) {
	f, err := os.CreateTemp("", "rasqal-sort-spill-*.zst")
	if err != nil {
		return nil, fmt.Errorf("rowsource: create spill file: %w", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("rowsource: open spill writer: %w", err)
	}
	return &spillWriter{f: f, zw: zw, gw: gob.NewEncoder(zw)}, nil
}

func (s *spillWriter) write(r *row.Row) error {
	if err := s.gw.Encode(r); err != nil {
		return fmt.Errorf("rowsource: spill encode: %w", err)
	}
	s.n++
	return nil
}

// seal flushes the compressed stream and returns a reader positioned at
// the start of the file. The returned spillReader owns the file handle
// and is responsible for removing it via close.
func (s *spillWriter) seal() (*spillReader, error) {
	if err := s.zw.Close(); err != nil {
		s.f.Close()
		os.Remove(s.f.Name())
		return nil, fmt.Errorf("rowsource: close spill writer: %w", err)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		s.f.Close()
		os.Remove(s.f.Name())
		return nil, fmt.Errorf("rowsource: rewind spill file: %w", err)
	}
	zr, err := zstd.NewReader(s.f)
	if err != nil {
		s.f.Close()
		os.Remove(s.f.Name())
		return nil, fmt.Errorf("rowsource: open spill reader: %w", err)
	}
	return &spillReader{f: s.f, zr: zr, gr: gob.NewDecoder(zr), n: s.n}, nil
}

type spillReader struct {
	f  *os.File
	zr *zstd.Decoder
	gr *gob.Decoder
	n  int
}

// readAll decodes every spilled row back into memory and releases the
// backing file. It does not reduce the final row count held during
// sorting: the spill only bounds the buffer inner rows sit in while
// they're still being read, not the sortmap's own working set.
func (s *spillReader) readAll() ([]*row.Row, error) {
	defer s.close()
	out := make([]*row.Row, 0, s.n)
	for {
		r := &row.Row{}
		err := s.gr.Decode(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rowsource: spill decode: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *spillReader) close() {
	s.zr.Close()
	s.f.Close()
	os.Remove(s.f.Name())
}
