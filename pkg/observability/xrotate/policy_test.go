package xrotate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRotate(t *testing.T) {
	tests := []struct {
		name    string
		size    uint64
		maxSize uint64
		want    bool
	}{
		{name: "空文件", size: 0, maxSize: 100, want: false},
		{name: "等于上限", size: 100, maxSize: 100, want: false},
		{name: "超过上限一个字节", size: 101, maxSize: 100, want: true},
		{name: "上限为 0 的空文件", size: 0, maxSize: 0, want: false},
		{name: "上限为 0 的非空文件", size: 1, maxSize: 0, want: true},
		{name: "最大值", size: math.MaxUint64, maxSize: math.MaxUint64 - 1, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRotate(tt.size, tt.maxSize))
		})
	}
}

func TestShouldRotate_Boundary(t *testing.T) {
	for maxSize := uint64(0); maxSize < 64; maxSize++ {
		for size := uint64(0); size < 128; size++ {
			assert.Equal(t, size > maxSize, ShouldRotate(size, maxSize), "size=%d max=%d", size, maxSize)
		}
	}
}
