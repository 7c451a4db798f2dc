// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

import "code.hybscloud.com/coda/stream"

// skipBufferSize is the size of the scratch buffer used to discard
// blob bytes without allocating per call.
const skipBufferSize = 1024

// LimitedReader decorates a stream.Reader with a cumulative byte
// budget and a nesting-depth budget, so that decoding untrusted input
// can't be coerced into unbounded memory use or unbounded recursion.
//
// Go has no RAII, so the depth budget is released through a
// defer-friendly scope guard (EnterScope) rather than on drop — the
// same discipline the teacher's framing code uses to guarantee
// cleanup runs on every exit path, including error returns.
type LimitedReader struct {
	r stream.Reader

	byteLimit int64 // 0 means unlimited
	byteUsed  int64

	depthLimit int // 0 means unlimited
	depth      int
}

// NewLimitedReader wraps r with the budgets described by opts,
// defaulting to DefaultByteLimit and DefaultDepthLimit.
func NewLimitedReader(r stream.Reader, opts ...Option) *LimitedReader {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &LimitedReader{r: r, byteLimit: o.ByteLimit, depthLimit: o.DepthLimit}
}

func (r *LimitedReader) account(n int) error {
	if r.byteLimit == 0 {
		return nil
	}
	r.byteUsed += int64(n)
	if r.byteUsed > r.byteLimit {
		return ErrByteLimitExceeded
	}
	return nil
}

// Read reads up to len(buf) bytes, charging them against the byte
// budget before reporting success.
func (r *LimitedReader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)
	if accErr := r.account(n); accErr != nil {
		return n, accErr
	}
	return n, err
}

// ReadFull reads exactly len(buf) bytes, charging them against the
// byte budget before reporting success.
func (r *LimitedReader) ReadFull(buf []byte) error {
	if err := r.account(len(buf)); err != nil {
		return err
	}
	return r.r.ReadFull(buf)
}

// skipBlob discards length bytes without allocating a length-sized buffer.
func (r *LimitedReader) skipBlob(length int) error {
	var buf [skipBufferSize]byte
	for skipped := 0; skipped < length; {
		remaining := length - skipped
		if remaining > skipBufferSize {
			remaining = skipBufferSize
		}
		if err := r.ReadFull(buf[:remaining]); err != nil {
			return err
		}
		skipped += remaining
	}
	return nil
}

// maxInitialCapacity bounds the capacity reserved up-front for a
// count-prefixed decode. A header's count is attacker-controlled and
// read before any payload bytes are; allocating it directly (e.g.
// make([]byte, count) with count == 0xFFFFFFFF) would let a single
// crafted header force a multi-gigabyte allocation before the byte
// budget ever sees a read to reject. Capacity beyond this grows
// through ordinary append as data is actually consumed.
const maxInitialCapacity = 1024

func initialCapacity(count uint32) int {
	if count > maxInitialCapacity {
		return maxInitialCapacity
	}
	return int(count)
}

// readBlob reads exactly count bytes into a newly allocated slice,
// growing it in skipBufferSize-sized chunks rather than allocating
// count bytes up-front, for the same reason skipBlob avoids a
// length-sized buffer.
func (r *LimitedReader) readBlob(count uint32) ([]byte, error) {
	buf := make([]byte, 0, initialCapacity(count))
	var chunk [skipBufferSize]byte
	for remaining := count; remaining > 0; {
		n := uint32(skipBufferSize)
		if remaining < n {
			n = remaining
		}
		if err := r.ReadFull(chunk[:n]); err != nil {
			return nil, err
		}
		buf = append(buf, chunk[:n]...)
		remaining -= n
	}
	return buf, nil
}

// EnterScope charges one level of nesting depth against the depth
// budget, returning a function that must be deferred to release it:
//
//	leave, err := r.EnterScope()
//	if err != nil {
//		return err
//	}
//	defer leave()
//
// This mirrors the original codec's recursive Data-field traversal,
// where each nested Data field opens one more level of structure
// before its own payload is read.
func (r *LimitedReader) EnterScope() (leave func(), err error) {
	if r.depthLimit != 0 && r.depth >= r.depthLimit {
		return func() {}, ErrDepthLimitExceeded
	}
	r.depth++
	return func() { r.depth-- }, nil
}
