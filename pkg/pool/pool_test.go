package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBufferIsEmpty(t *testing.T) {
	b := GetBuffer()
	b.WriteString("left over")
	PutBuffer(b)

	again := GetBuffer()
	assert.Zero(t, again.Len())
	PutBuffer(again)
}

func TestPutBufferDropsOversized(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, maxPooledCap+1))
	PutBuffer(big) // must not panic; simply not pooled

	b := GetBuffer()
	assert.Zero(t, b.Len())
}
