// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"errors"
	"io"
	"net"
)

var (
	// ErrEmpty reports that the stream has no more data to read
	// and will not receive any more.
	ErrEmpty = errors.New("stream: empty")

	// ErrClosed reports that the stream's peer is gone and the
	// stream will neither accept nor produce any more data.
	ErrClosed = errors.New("stream: closed")
)

// Error is an uncategorized stream failure carrying a diagnostic message.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// classifyErr maps a standard library I/O error onto the stream
// package's reduced Empty/Closed/Other taxonomy.
//
// Grounded on codas/src/stream.rs's std::io::Read/Write error-kind
// mapping: ConnectionReset/ConnectionAborted/BrokenPipe become Closed,
// UnexpectedEof becomes Empty, everything else is Other.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmpty
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ErrEmpty
	case errors.Is(err, io.ErrClosedPipe):
		return ErrClosed
	case errors.Is(err, net.ErrClosed):
		return ErrClosed
	default:
		return &Error{Message: err.Error()}
	}
}
