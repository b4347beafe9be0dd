package core

import "sync"

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 4096)
	},
}

// GetBuffer returns a zeroed byte slice of the requested size from the
// pool, growing the backing array if necessary.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte) //nolint:errcheck // pool always holds []byte
	if cap(buf) < size {
		return make([]byte, size)
	}
	buf = buf[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// ReleaseBuffer returns a buffer to the pool for reuse.
func ReleaseBuffer(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}
