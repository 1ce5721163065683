/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package chunked implements the incremental HTTP/1.1
// "Transfer-Encoding: chunked" body decoder (RFC 7230 §4.1). It is
// push-based (Feed(bytes)), not pull-based like the stdlib-style
// bufio.Reader chunked reader it's adapted from, because the receive
// loop hands it bytes as they arrive off the socket rather than
// letting it block on its own read.
package chunked

type state int

const (
	stateSize state = iota
	statePayload
	statePayloadTerminator
	stateDone
)

// Decoder is bound to a single chunked body. Feed accepts arbitrarily
// fragmented input, however it is split across calls, and returns the
// assembled body exactly once, when the terminating zero-size chunk's
// own trailing CRLF has been consumed. Every call after that returns
// (nil, false, nil).
type Decoder struct {
	state   state
	body    []byte
	sizeBuf []byte

	remaining    uint64
	isFinalChunk bool
	terminatorAt int
	delivered    bool
}

// New returns a Decoder ready to accept the first chunk's size line.
func New() *Decoder {
	return &Decoder{}
}
