/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"errors"
	"io"
	"time"

	"github.com/badu/httpclient/internal/bufpool"
)

// DefaultReadBufferSize is the read buffer size Send uses when the
// caller doesn't ask for a specific one.
const DefaultReadBufferSize = 4096

// Socket is the narrow byte-stream interface the core consumes (spec
// 6): a blocking, all-or-error Write and a blocking Read that may
// return a short count. A Read that signals end-of-stream does so the
// Go way, by returning io.EOF; the Receive Loop treats that as the
// peer having closed the connection.
type Socket interface {
	Read(buf []byte) (n int, err error)
	Write(p []byte) error
	io.Closer
}

// runReceiveLoop drives Socket.Read in a tight, single-threaded,
// blocking loop, feeding every chunk read to a ResponseParser until it
// reports completion. socket is assumed already open and connected;
// urlStr is the finalised URL the caller asked for.
func runReceiveLoop(socket Socket, urlStr string, callbacks *Callbacks, bufSize int, start time.Time) (*Response, error) {
	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}
	parser := NewResponseParser(callbacks)

	bb := bufpool.Get(bufSize)
	defer bufpool.Put(bb)
	buf := bb.B

	for {
		n, readErr := socket.Read(buf)
		if n > 0 {
			parsed, stopped, perr := parser.Feed(buf[:n])
			if perr != nil {
				return nil, perr
			}
			if parsed != nil {
				resp := &Response{
					ParsedResponse: parsed,
					url:            urlStr,
					totalTimeMS:    float64(time.Since(start)) / float64(time.Millisecond),
				}
				if !stopped && callbacks.OnFinished != nil {
					callbacks.OnFinished(FinishedEvent{Response: resp, sig: parser.sig})
				}
				return resp, nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil, newConnectionFailedError("peer closed unexpectedly", false)
			}
			var cfe *ConnectionFailedError
			if errors.As(readErr, &cfe) {
				return nil, cfe
			}
			return nil, newConnectionFailedError(readErr.Error(), false)
		}
	}
}
