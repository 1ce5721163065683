/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import "github.com/badu/httpclient/hdr"

// StatusLine is the first line of an HTTP/1.1 response (RFC 7230
// §3.1.2). StatusCode is 0 if the line could not be parsed as one.
type StatusLine struct {
	HTTPVersion   string
	StatusCode    uint16
	StatusMessage string
}

// ParsedResponse is the record owned and mutated by ResponseParser as
// it works through a single exchange. Fields are unexported: a
// ParsedResponse is shared by value-through-pointer with every
// progress event and the final Response, so its accessors are the one
// place those methods are defined, rather than duplicated per
// embedding site.
type ParsedResponse struct {
	statusLine StatusLine
	headersRaw string
	headers    hdr.Header
	body       []byte
	done       bool
}

// StatusLine returns the parsed status line.
func (p *ParsedResponse) StatusLine() StatusLine { return p.statusLine }

// StatusCode returns the response's numeric status code, or 0 if the
// status line could not be parsed.
func (p *ParsedResponse) StatusCode() uint16 { return p.statusLine.StatusCode }

// StatusMessage returns the reason phrase that followed the status code.
func (p *ParsedResponse) StatusMessage() string { return p.statusLine.StatusMessage }

// HTTPVersion returns the version token from the status line, e.g. "HTTP/1.1".
func (p *ParsedResponse) HTTPVersion() string { return p.statusLine.HTTPVersion }

// HeadersString returns the raw header block, including the status
// line, up to (not including) the blank-line terminator.
func (p *ParsedResponse) HeadersString() string { return p.headersRaw }

// Headers returns the decoded header sequence, in wire order.
func (p *ParsedResponse) Headers() hdr.Header { return p.headers }

// Header returns the first value recorded under name, case-insensitively.
func (p *ParsedResponse) Header(name string) (string, bool) { return p.headers.Get(name) }

// HeaderValues returns every value recorded under name, in wire order.
func (p *ParsedResponse) HeaderValues(name string) []string { return p.headers.Values(name) }

// Body returns the response body. It is complete only once Done
// reports true; callers inspecting it from a BodyProgressEvent are
// looking at BodySoFar instead, not this method.
func (p *ParsedResponse) Body() []byte { return p.body }

// BodyString returns Body decoded as a string.
func (p *ParsedResponse) BodyString() string { return string(p.body) }

// Done reports whether the parser has finished this response, whether
// by natural completion or by a caller-triggered Stop.
func (p *ParsedResponse) Done() bool { return p.done }

// Response is the value Send and Future.Get return: a completed
// ParsedResponse plus the request's resolved URL and timing. It is
// never mutated after construction.
type Response struct {
	*ParsedResponse
	url         string
	totalTimeMS float64
}

// URL returns the finalised URL string the request was sent to.
func (r *Response) URL() string { return r.url }

// TotalTimeMS returns the wall-clock duration, in milliseconds, from
// socket-open to response-complete (or to Stop, if the exchange was
// terminated early).
func (r *Response) TotalTimeMS() float64 { return r.totalTimeMS }
