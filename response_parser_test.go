/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"testing"
)

// feedAll drives p with data split into chunkSize-byte pieces (or all
// at once if chunkSize <= 0) and returns the terminal Feed call's
// results.
func feedAll(t *testing.T, p *ResponseParser, data []byte, chunkSize int) (*ParsedResponse, bool, error) {
	t.Helper()
	if chunkSize <= 0 {
		return p.Feed(data)
	}
	var last *ParsedResponse
	var stopped bool
	var err error
	for i := 0; i < len(data); i += chunkSize {
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		last, stopped, err = p.Feed(data[i:end])
		if err != nil || last != nil {
			return last, stopped, err
		}
	}
	return last, stopped, err
}

func TestResponseParserByLengthGET(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
	p := NewResponseParser(nil)
	parsed, stopped, err := p.Feed(raw)
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected completion on first Feed call")
	}
	if stopped {
		t.Fatalf("did not expect stopped")
	}
	if parsed.StatusCode() != 200 || parsed.StatusMessage() != "OK" || parsed.HTTPVersion() != "HTTP/1.1" {
		t.Fatalf("status line = %+v", parsed.StatusLine())
	}
	if parsed.BodyString() != "hello" {
		t.Fatalf("body = %q, want %q", parsed.BodyString(), "hello")
	}
	if v, ok := parsed.Header("content-length"); !ok || v != "5" {
		t.Fatalf("Header(content-length) = %q, %v", v, ok)
	}
}

func TestResponseParserChunked(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")
	p := NewResponseParser(nil)
	parsed, _, err := p.Feed(raw)
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected completion")
	}
	if parsed.BodyString() != "hello world" {
		t.Fatalf("body = %q, want %q", parsed.BodyString(), "hello world")
	}
}

func TestResponseParserFragmentationInvariance(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
	whole := NewResponseParser(nil)
	wantParsed, _, err := whole.Feed(raw)
	if err != nil || wantParsed == nil {
		t.Fatalf("whole feed: parsed=%v err=%v", wantParsed, err)
	}

	for chunkSize := 1; chunkSize <= len(raw); chunkSize++ {
		p := NewResponseParser(nil)
		got, _, err := feedAll(t, p, raw, chunkSize)
		if err != nil {
			t.Fatalf("chunkSize=%d: %v", chunkSize, err)
		}
		if got == nil {
			t.Fatalf("chunkSize=%d: never completed", chunkSize)
		}
		if got.BodyString() != wantParsed.BodyString() {
			t.Fatalf("chunkSize=%d: body = %q, want %q", chunkSize, got.BodyString(), wantParsed.BodyString())
		}
		if got.StatusCode() != wantParsed.StatusCode() {
			t.Fatalf("chunkSize=%d: status = %d, want %d", chunkSize, got.StatusCode(), wantParsed.StatusCode())
		}
	}
}

func TestResponseParserChunkedEquivalentToLength(t *testing.T) {
	body := "hello world"
	byLength := []byte("HTTP/1.1 200 OK\r\nContent-Length: 11\r\n\r\n" + body)
	chunkedRaw := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\nb\r\n" + body + "\r\n0\r\n\r\n")

	p1 := NewResponseParser(nil)
	r1, _, err := p1.Feed(byLength)
	if err != nil || r1 == nil {
		t.Fatalf("by-length: parsed=%v err=%v", r1, err)
	}
	p2 := NewResponseParser(nil)
	r2, _, err := p2.Feed(chunkedRaw)
	if err != nil || r2 == nil {
		t.Fatalf("chunked: parsed=%v err=%v", r2, err)
	}
	if r1.BodyString() != r2.BodyString() {
		t.Fatalf("body mismatch: %q vs %q", r1.BodyString(), r2.BodyString())
	}
}

func TestResponseParserStopDuringBody(t *testing.T) {
	headers := "HTTP/1.1 200 OK\r\nContent-Length: 1000000\r\n\r\n"
	firstChunk := make([]byte, 10)
	for i := range firstChunk {
		firstChunk[i] = 'a'
	}

	var bodyCalls int
	callbacks := &Callbacks{
		OnBodyProgress: func(e BodyProgressEvent) {
			bodyCalls++
			e.Stop()
		},
	}
	p := NewResponseParser(callbacks)
	parsed, stopped, err := p.Feed([]byte(headers))
	if err != nil || parsed != nil {
		t.Fatalf("headers feed: parsed=%v err=%v", parsed, err)
	}
	parsed, stopped, err = p.Feed(firstChunk)
	if err != nil {
		t.Fatalf("body feed: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected parser to finish on stop")
	}
	if !stopped {
		t.Fatalf("expected stopped = true")
	}
	if len(parsed.Body()) != len(firstChunk) {
		t.Fatalf("body len = %d, want %d (a prefix)", len(parsed.Body()), len(firstChunk))
	}
	if parsed.StatusCode() != 200 {
		t.Fatalf("status code = %d", parsed.StatusCode())
	}
	if bodyCalls != 1 {
		t.Fatalf("body progress calls = %d, want 1", bodyCalls)
	}

	// Feeding more after a stopped completion is a no-op.
	parsed2, _, err := p.Feed([]byte("more"))
	if parsed2 != nil || err != nil {
		t.Fatalf("feed after stop: parsed=%v err=%v", parsed2, err)
	}
}

func TestResponseParserMalformedChunkSize(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\nZZ\r\nwhatever")
	p := NewResponseParser(nil)
	_, _, err := p.Feed(raw)
	if err == nil {
		t.Fatalf("expected a ParseError for malformed chunk size")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
}

func TestResponseParserLenientLFHeaderTerminator(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\nContent-Length: 2\n\nhi")
	p := NewResponseParser(nil)
	parsed, _, err := p.Feed(raw)
	if err != nil || parsed == nil {
		t.Fatalf("parsed=%v err=%v", parsed, err)
	}
	if parsed.BodyString() != "hi" {
		t.Fatalf("body = %q", parsed.BodyString())
	}
}

func TestResponseParserNoBodyFramingDefaultsToEmpty(t *testing.T) {
	raw := []byte("HTTP/1.1 204 No Content\r\n\r\n")
	p := NewResponseParser(nil)
	parsed, _, err := p.Feed(raw)
	if err != nil || parsed == nil {
		t.Fatalf("parsed=%v err=%v", parsed, err)
	}
	if len(parsed.Body()) != 0 {
		t.Fatalf("body = %q, want empty", parsed.Body())
	}
}

func TestResponseParserStopDuringRawProgressBeforeHeaders(t *testing.T) {
	callbacks := &Callbacks{
		OnRawProgress: func(e RawProgressEvent) {
			e.Stop()
		},
	}
	p := NewResponseParser(callbacks)
	parsed, stopped, err := p.Feed([]byte("HTTP/1.1 200"))
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected a (empty) ParsedResponse on stop before headers were parsed")
	}
	if !stopped {
		t.Fatalf("expected stopped = true")
	}
	if parsed.StatusCode() != 0 {
		t.Fatalf("status code = %d, want 0 (never parsed)", parsed.StatusCode())
	}
}

func TestResponseParserHeaderValuesCaseInsensitive(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nX-Foo: bar\r\n\r\n")
	p := NewResponseParser(nil)
	parsed, _, err := p.Feed(raw)
	if err != nil || parsed == nil {
		t.Fatalf("parsed=%v err=%v", parsed, err)
	}
	up, okUp := parsed.Header("X-FOO")
	low, okLow := parsed.Header("x-foo")
	if !okUp || !okLow || up != low || up != "bar" {
		t.Fatalf("Header lookups not case-insensitive: %q(%v), %q(%v)", up, okUp, low, okLow)
	}
}
