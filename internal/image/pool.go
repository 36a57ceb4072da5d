package image

import "sync"

// Pool is a thread-safe pool for reusing Buffer instances.
//
// Pool groups buffers by shape (width, height, encoding). Converting a
// sequence of simulation frames produces one output buffer per frame, all of
// the same shape, so reusing them avoids reallocating the raster each time.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identical buffer shapes.
type poolKey struct {
	width    int
	height   int
	encoding Encoding
}

// NewPool creates a new buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a zeroed buffer of the given shape from the pool or
// allocates a new one.
func (p *Pool) Get(width, height int, encoding Encoding) (*Buffer, error) {
	key := poolKey{width: width, height: height, encoding: encoding}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewBuffer(width, height, encoding)
}

// GetShape retrieves a zeroed buffer with the same shape as b.
func (p *Pool) GetShape(b *Buffer) (*Buffer, error) {
	if !b.IsValid() {
		return nil, ErrInvalidBuffer
	}
	return p.Get(b.width, b.height, b.encoding)
}

// Put returns a buffer to the pool for reuse.
// Invalid buffers and buffers beyond the bucket capacity are discarded.
func (p *Pool) Put(buf *Buffer) {
	if !buf.IsValid() {
		return
	}

	key := poolKey{
		width:    buf.width,
		height:   buf.height,
		encoding: buf.encoding,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers across all shapes.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
