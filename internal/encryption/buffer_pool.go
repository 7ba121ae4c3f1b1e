package encryption

import (
	"sync"

	"github.com/idelchi/sectorc/internal/config"
)

// segmentSize is the target number of body bytes transformed per pipeline call.
const segmentSize = config.MaxUnitSize

// bufferPool provides segment buffers of segmentSize bytes.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, segmentSize)
	},
}

// segmentLength returns the largest multiple of unitSize that fits a pooled buffer.
func segmentLength(unitSize int) int {
	return max(1, segmentSize/unitSize) * unitSize
}
