package recovery

import (
	"errors"

	"github.com/vound-software/libpff-20120802-sub001/internal/heap"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// errNoHeap marks a data stream that parses fine but doesn't carry a
// Heap-on-Node (e.g. a recovered attachment's raw payload stream): still a
// valid recovered item, just not a table-bearing one.
var errNoHeap = errors.New("recovery: stream carries no heap")

// tryDecodeTable attempts the L6+L7 decode spec.md §4.10 step 3 calls for:
// parse a Heap-on-Node, then its root table. Streams that aren't
// heap-shaped (plain attachment payloads) are tolerated via errNoHeap
// rather than rejected outright.
func tryDecodeTable(decoder interfaces.TableDecoder, data []byte) (*types.Table, error) {
	h, err := heap.Parse(data)
	if err != nil {
		return nil, errNoHeap
	}
	return decoder.Decode(h)
}
