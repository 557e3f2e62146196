package util

import (
	"sync"
)

type BufferPool interface {
	Get() *Buffer
	Put(buf *Buffer)
}

// sync.Pool based buffer pool
type SyncBufferPool struct {
	pool sync.Pool
	size int
}

func NewSyncBufferPool(size int) BufferPool {
	p := sync.Pool{
		New: func() interface{} {
			buf := new(Buffer)
			buf.Grow(size)
			return buf
		},
	}

	return &SyncBufferPool{pool: p, size: size}
}

func (p *SyncBufferPool) Get() *Buffer {
	item := p.pool.Get()
	buf, ok := item.(*Buffer)
	if !ok {
		buf = new(Buffer)
		buf.Grow(p.size)
	}
	return buf
}

func (p *SyncBufferPool) Put(buf *Buffer) {
	buf.Reset()
	p.pool.Put(buf)
}

// channel based buffer pool
type ChanBufferPool struct {
	poolCh chan *Buffer
	size   int
}

func NewChanBufferPool(chansize int, bufsize int) BufferPool {
	p := &ChanBufferPool{
		poolCh: make(chan *Buffer, chansize),
		size:   bufsize,
	}

	return p
}

func (p *ChanBufferPool) Get() (buf *Buffer) {
	select {
	case buf = <-p.poolCh:
	default:
		buf = new(Buffer)
		buf.Grow(p.size)
	}

	return buf
}

func (p *ChanBufferPool) Put(buf *Buffer) {
	buf.Reset()
	select {
	case p.poolCh <- buf:
	default:
		// do nothing, will be gc
	}
}
