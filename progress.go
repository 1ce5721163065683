/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

// signal is the cooperative stop flag shared between a callback's event
// object and the receive loop that reads it back after the callback
// returns: the flag lives on the event payload and the parser checks it
// immediately after each callback invocation. Stop is idempotent:
// setting it twice, or from more than one callback during the same
// exchange, leaves exactly one terminated response.
type signal struct {
	stopped bool
}

func (s *signal) Stop() {
	s.stopped = true
}

// RawView is a short-lived borrow of the parser's accumulated byte
// buffer, valid only for the duration of the callback it is passed to.
// Callers that need the bytes afterward must copy them.
type RawView struct {
	// Buffer is every byte received so far for this response.
	Buffer []byte
	// NewDataStart is, in a RawProgressEvent, the offset into Buffer
	// where the bytes just fed to the parser begin. In a HeadersEvent
	// or BodyProgressEvent it is the offset where the body begins (just
	// past the header terminator), not where the latest packet begins.
	NewDataStart int
}

// RawProgressEvent fires once per read packet, before any parsing of
// that packet happens.
type RawProgressEvent struct {
	RawView
	sig *signal
}

// Stop requests that the Receive Loop terminate at the next boundary.
func (e RawProgressEvent) Stop() { e.sig.Stop() }

// HeadersEvent fires exactly once, when the header block has been
// fully parsed. It embeds *ParsedResponse so callbacks can call its
// accessor methods directly instead of going through a separate
// headers-only type.
type HeadersEvent struct {
	RawView
	*ParsedResponse
	sig *signal
}

func (e HeadersEvent) Stop() { e.sig.Stop() }

// BodyProgressEvent fires once per read packet while the body is being
// read, including the packet that completes it (there is no separate
// completion event), and once for a response with an empty body.
type BodyProgressEvent struct {
	RawView
	*ParsedResponse
	// BodySoFar is the body payload assembled so far: for a chunked
	// body this is the decoded bytes, not the wire-framed ones.
	BodySoFar []byte
	// ExpectedTotal is the Content-Length-declared size in by-length
	// mode, or -1 if the total size is unknown (chunked mode).
	ExpectedTotal int64
	sig           *signal
}

func (e BodyProgressEvent) Stop() { e.sig.Stop() }

// FinishedEvent fires once, after the Response is fully constructed
// and immediately before Send returns it. It never fires if the
// exchange was terminated early via Stop.
type FinishedEvent struct {
	*Response
	sig *signal
}

func (e FinishedEvent) Stop() { e.sig.Stop() }

// Callbacks holds the four optional progress hooks a caller may
// install on a Request. All are invoked synchronously from the Receive
// Loop's goroutine; a nil hook is simply skipped.
type Callbacks struct {
	OnRawProgress  func(RawProgressEvent)
	OnHeaders      func(HeadersEvent)
	OnBodyProgress func(BodyProgressEvent)
	OnFinished     func(FinishedEvent)
}
