// Package pool provides object pooling to reduce GC pressure
package pool

import (
	"bytes"
	"sync"
)

// maxPooledCap keeps one huge export from pinning memory in the pool.
const maxPooledCap = 1 << 20

// BufferPool pools *bytes.Buffer for text encoders
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets an empty buffer from pool
func GetBuffer() *bytes.Buffer {
	b := BufferPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// PutBuffer returns a buffer to pool
func PutBuffer(b *bytes.Buffer) {
	if b.Cap() > maxPooledCap {
		return
	}
	BufferPool.Put(b)
}
