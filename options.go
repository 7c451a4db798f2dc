// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

// DefaultByteLimit is the default cumulative byte budget for a
// LimitedReader, matching a generous but bounded decode of untrusted
// input (64 MiB).
const DefaultByteLimit = 64 << 20

// DefaultDepthLimit is the default nesting-depth budget for a
// LimitedReader: the maximum number of Data fields that may be open
// (awaiting their own header) at once.
const DefaultDepthLimit = 64

// Options configures a LimitedReader.
type Options struct {
	ByteLimit int64
	DepthLimit int
}

var defaultOptions = Options{
	ByteLimit:  DefaultByteLimit,
	DepthLimit: DefaultDepthLimit,
}

// Option configures a LimitedReader at construction time.
type Option func(*Options)

// WithByteLimit overrides the cumulative byte budget.
func WithByteLimit(n int64) Option {
	return func(o *Options) { o.ByteLimit = n }
}

// WithDepthLimit overrides the nesting-depth budget.
func WithDepthLimit(n int) Option {
	return func(o *Options) { o.DepthLimit = n }
}

// WithUnlimited disables both the byte and depth budgets. Only use
// this for trusted input — it reintroduces the unbounded-recursion and
// unbounded-allocation risks the budgets exist to prevent.
func WithUnlimited() Option {
	return func(o *Options) {
		o.ByteLimit = 0
		o.DepthLimit = 0
	}
}
