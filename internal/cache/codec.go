package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// matrixMagic prefixes every encoded matrix
var matrixMagic = [4]byte{'S', 'F', 'V', '1'}

const matrixHeaderSize = 12 // magic + rows(uint32) + dim(uint32)

var errBadMatrix = errors.New("malformed vector matrix")

// encodeMatrix serializes equal-length float32 rows as little-endian values
// after a fixed header
func encodeMatrix(rows [][]float32) ([]byte, error) {
	dim := 0
	if len(rows) > 0 {
		dim = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d", errBadMatrix, i, len(row), dim)
		}
	}

	blob := make([]byte, matrixHeaderSize+len(rows)*dim*4)
	copy(blob[0:4], matrixMagic[:])
	binary.LittleEndian.PutUint32(blob[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint32(blob[8:12], uint32(dim))

	off := matrixHeaderSize
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint32(blob[off:], math.Float32bits(v))
			off += 4
		}
	}
	return blob, nil
}

// decodeMatrix reverses encodeMatrix
func decodeMatrix(blob []byte) ([][]float32, error) {
	if len(blob) < matrixHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errBadMatrix, len(blob))
	}
	if [4]byte(blob[0:4]) != matrixMagic {
		return nil, fmt.Errorf("%w: bad magic", errBadMatrix)
	}

	rows32 := binary.LittleEndian.Uint32(blob[4:8])
	dim32 := binary.LittleEndian.Uint32(blob[8:12])
	// rows*dim fits in uint64 for any header; rows*dim*4 may not
	payload := uint64(len(blob) - matrixHeaderSize)
	if (dim32 == 0 && rows32 != 0) || payload%4 != 0 ||
		uint64(rows32)*uint64(dim32) != payload/4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", errBadMatrix, len(blob), rows32, dim32)
	}
	n, dim := int(rows32), int(dim32)

	rows := make([][]float32, n)
	off := matrixHeaderSize
	for i := range rows {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(blob[off:]))
			off += 4
		}
		rows[i] = row
	}
	return rows, nil
}
