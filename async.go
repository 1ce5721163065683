/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future is the handle SendAsync returns. The blocking exchange runs
// on a dedicated goroutine inside a single-member errgroup.Group,
// which Wait waits on; Poll and Get watch the done channel the worker
// closes when it finishes. A panic inside the exchange is not
// recovered.
type Future struct {
	g    *errgroup.Group
	done chan struct{}
	resp *Response
	err  error
}

// SendAsync runs Send on a worker goroutine and returns immediately.
// The submitting goroutine relinquishes the Request to the worker; the
// caller must not reuse r afterwards.
func (r *Request) SendAsync() *Future {
	return r.SendAsyncWithBufferSize(DefaultReadBufferSize)
}

// SendAsyncWithBufferSize is SendAsync with a caller-chosen read
// buffer size.
func (r *Request) SendAsyncWithBufferSize(n int) *Future {
	f := &Future{g: new(errgroup.Group), done: make(chan struct{})}
	f.g.Go(func() error {
		defer close(f.done)
		resp, err := r.SendWithBufferSize(n)
		f.resp, f.err = resp, err
		return err
	})
	return f
}

// Wait blocks until the exchange completes and returns its result.
func (f *Future) Wait() (*Response, error) {
	f.g.Wait()
	return f.resp, f.err
}

// Poll reports whether the exchange has completed, without blocking.
func (f *Future) Poll() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the exchange completes or ctx is cancelled,
// whichever happens first.
func (f *Future) Get(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
