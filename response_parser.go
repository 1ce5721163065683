/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/badu/httpclient/chunked"
	"github.com/badu/httpclient/hdr"
)

type parserState int

const (
	stateAwaitingHeaders parserState = iota
	stateReadingBody
	stateDone
)

type bodyMode int

const (
	bodyModeByLength bodyMode = iota
	bodyModeChunked
)

// ResponseParser is the incremental status-line/header/body state
// machine for an HTTP/1.1 response (RFC 7230 §3). It is bound to a
// single exchange: construct one per Request, call Feed as bytes arrive
// off the socket, and stop calling it once it reports completion.
type ResponseParser struct {
	callbacks *Callbacks
	sig       *signal

	state  parserState
	buf    []byte
	parsed *ParsedResponse

	mode          bodyMode
	bodyStart     int
	expectedLen   int64
	chunkDec      *chunked.Decoder
	chunkConsumed int

	stopped bool
}

// NewResponseParser returns a parser that reports progress through
// callbacks. A nil callbacks is treated as an empty set.
func NewResponseParser(callbacks *Callbacks) *ResponseParser {
	if callbacks == nil {
		callbacks = &Callbacks{}
	}
	return &ResponseParser{callbacks: callbacks, sig: &signal{}}
}

// Feed advances the parser by data, which must be exactly the bytes
// just read off the socket (not the whole response so far, the
// parser keeps its own buffer). It returns a non-nil *ParsedResponse
// exactly once, on the call that completes the response, whether by
// natural completion or by the caller invoking Stop from a callback;
// stopped distinguishes the two so the receive loop knows whether to
// fire the finished callback. Every call after that returns
// (nil, false, nil).
func (p *ResponseParser) Feed(data []byte) (resp *ParsedResponse, stopped bool, err error) {
	if p.state == stateDone {
		return nil, false, nil
	}

	newDataStart := len(p.buf)
	p.buf = append(p.buf, data...)

	p.emitRaw(newDataStart)
	if p.checkStopped() {
		return p.finish()
	}

	if p.state == stateAwaitingHeaders {
		found, perr := p.tryParseHeaders(newDataStart)
		if perr != nil {
			p.state = stateDone
			return nil, false, perr
		}
		if !found {
			return nil, false, nil
		}
		p.emitHeaders()
		if p.checkStopped() {
			return p.finish()
		}
	}

	if p.state == stateReadingBody {
		// Only step the body decoder if this Feed call actually carried
		// new body bytes, or the response has no body at all (size-0
		// by-length): a Feed call whose bytes ended exactly at the
		// header terminator has nothing new to report yet.
		hasNewBodyBytes := len(p.buf) > p.bodyStart+p.chunkConsumed
		zeroLengthBody := p.mode == bodyModeByLength && p.expectedLen == 0
		if hasNewBodyBytes || zeroLengthBody {
			done, berr := p.feedBody()
			if berr != nil {
				p.state = stateDone
				return nil, false, berr
			}
			if done || p.checkStopped() {
				return p.finish()
			}
		}
	}

	return nil, false, nil
}

func (p *ResponseParser) checkStopped() bool {
	if p.sig.stopped {
		p.stopped = true
	}
	return p.stopped
}

func (p *ResponseParser) finish() (*ParsedResponse, bool, error) {
	p.state = stateDone
	if p.parsed == nil {
		// Stopped from a raw-progress callback, before headers were
		// even parsed: still hand back an (empty) ParsedResponse
		// reflecting whatever was parsed so far.
		p.parsed = &ParsedResponse{}
	}
	p.parsed.done = true
	return p.parsed, p.stopped, nil
}

func (p *ResponseParser) emitRaw(newDataStart int) {
	if p.callbacks.OnRawProgress == nil {
		return
	}
	p.callbacks.OnRawProgress(RawProgressEvent{
		RawView: RawView{Buffer: p.buf, NewDataStart: newDataStart},
		sig:     p.sig,
	})
}

func (p *ResponseParser) emitHeaders() {
	if p.callbacks.OnHeaders == nil {
		return
	}
	p.callbacks.OnHeaders(HeadersEvent{
		RawView:        RawView{Buffer: p.buf, NewDataStart: p.bodyStart},
		ParsedResponse: p.parsed,
		sig:            p.sig,
	})
}

func (p *ResponseParser) emitBodyProgress(bodySoFar []byte, expectedTotal int64) {
	if p.callbacks.OnBodyProgress == nil {
		return
	}
	p.callbacks.OnBodyProgress(BodyProgressEvent{
		RawView:        RawView{Buffer: p.buf, NewDataStart: p.bodyStart},
		ParsedResponse: p.parsed,
		BodySoFar:      bodySoFar,
		ExpectedTotal:  expectedTotal,
		sig:            p.sig,
	})
}

// tryParseHeaders searches for the end-of-headers marker and, if
// found, parses the status line and header block and selects the body
// framing mode (RFC 7230 §3).
func (p *ResponseParser) tryParseHeaders(newDataStart int) (found bool, err error) {
	searchFrom := newDataStart - 3
	if searchFrom < 0 {
		searchFrom = 0
	}
	hay := p.buf[searchFrom:]

	crlfIdx := bytes.Index(hay, []byte("\r\n\r\n"))
	lfIdx := bytes.Index(hay, []byte("\n\n"))

	var idx, markerLen int
	switch {
	case crlfIdx >= 0 && (lfIdx < 0 || crlfIdx <= lfIdx):
		idx, markerLen = crlfIdx, 4
	case lfIdx >= 0:
		idx, markerLen = lfIdx, 2
	default:
		return false, nil
	}

	headerEnd := searchFrom + idx
	bodyStart := headerEnd + markerLen
	statusLine, headerText := splitStatusAndHeaders(string(p.buf[:headerEnd]))
	headers := hdr.ParseBlock(headerText)

	p.parsed = &ParsedResponse{
		statusLine: parseStatusLine(statusLine),
		headersRaw: string(p.buf[:headerEnd]),
		headers:    headers,
	}
	p.bodyStart = bodyStart

	if cl, ok := headers.Get(hdr.ContentLength); ok {
		n, perr := parseContentLength(cl)
		if perr != nil {
			return false, newParseError("invalid Content-Length: " + cl)
		}
		p.mode = bodyModeByLength
		p.expectedLen = n
	} else if te, ok := headers.Get(hdr.TransferEncoding); ok && hdr.EqualFold(strings.TrimSpace(te), hdr.Chunked) {
		p.mode = bodyModeChunked
		p.chunkDec = chunked.New()
	} else {
		p.mode = bodyModeByLength
		p.expectedLen = 0
	}

	p.state = stateReadingBody
	return true, nil
}

func (p *ResponseParser) feedBody() (done bool, err error) {
	switch p.mode {
	case bodyModeByLength:
		total := p.bodyStart + int(p.expectedLen)
		end := len(p.buf)
		if end > total {
			end = total
		}
		bodySoFar := p.buf[p.bodyStart:end]
		// Recorded even before completion, so a caller-triggered Stop
		// leaves ParsedResponse.body holding the prefix read so far
		// rather than nothing at all.
		p.parsed.body = bodySoFar
		p.emitBodyProgress(bodySoFar, p.expectedLen)
		return len(p.buf) >= total, nil
	case bodyModeChunked:
		newBytes := p.buf[p.bodyStart+p.chunkConsumed:]
		p.chunkConsumed += len(newBytes)
		body, chunkDone, derr := p.chunkDec.Feed(newBytes)
		if derr != nil {
			return false, newParseError(derr.Error())
		}
		p.parsed.body = p.chunkDec.BodySoFar()
		p.emitBodyProgress(p.parsed.body, -1)
		if chunkDone {
			p.parsed.body = body
			return true, nil
		}
		return false, nil
	default:
		return false, nil
	}
}

// splitStatusAndHeaders separates the first line (the status line)
// from the rest of the header block, tolerating either \r\n or \n
// line endings; hdr.ParseBlock handles any leftover \r on each
// remaining line itself.
func splitStatusAndHeaders(block string) (statusLine, headerText string) {
	i := strings.IndexByte(block, '\n')
	if i < 0 {
		return strings.TrimRight(block, "\r"), ""
	}
	return strings.TrimRight(block[:i], "\r"), block[i+1:]
}

func parseStatusLine(line string) StatusLine {
	parts := strings.SplitN(line, " ", 3)
	var sl StatusLine
	if len(parts) > 0 {
		sl.HTTPVersion = parts[0]
	}
	if len(parts) > 1 {
		if n, err := strconv.ParseUint(parts[1], 10, 16); err == nil {
			sl.StatusCode = uint16(n)
		}
	}
	if len(parts) > 2 {
		sl.StatusMessage = parts[2]
	}
	return sl
}

// parseContentLength parses s as a base-10 non-negative integer,
// rejecting a leading '+' and any non-digit byte (RFC 7230 §3.3.2
// defines Content-Length as 1*DIGIT).
func parseContentLength(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newParseError("empty Content-Length")
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, newParseError("non-digit in Content-Length")
		}
		d := int64(c - '0')
		if n > (1<<63-1-d)/10 {
			return 0, newParseError("Content-Length overflow")
		}
		n = n*10 + d
	}
	return n, nil
}
