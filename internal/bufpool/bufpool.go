/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package bufpool hands the Receive Loop a reusable, fixed-size read
// buffer per exchange instead of allocating one per send() call.
package bufpool

import "github.com/valyala/bytebufferpool"

var pool bytebufferpool.Pool

// Get returns a pooled buffer whose backing slice is exactly size
// bytes long, ready to pass to Socket.Read. Callers must return it via
// Put once the exchange is done.
func Get(size int) *bytebufferpool.ByteBuffer {
	bb := pool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	} else {
		bb.B = bb.B[:size]
	}
	return bb
}

// Put returns bb to the pool for reuse by a later exchange.
func Put(bb *bytebufferpool.ByteBuffer) {
	bb.Reset()
	pool.Put(bb)
}
