/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package chunked

import "bytes"

// BodySoFar returns the payload bytes assembled so far, including
// while chunks are still arriving. Unlike Feed's return value this may
// be called any number of times and never marks the body delivered;
// callers that only need the final body should rely on Feed's return
// instead.
func (d *Decoder) BodySoFar() []byte {
	return d.body
}

// Feed advances the decoder by as much of p as it can consume. See the
// Decoder doc comment for the one-shot delivery contract.
func (d *Decoder) Feed(p []byte) (body []byte, done bool, err error) {
	if d.delivered {
		return nil, false, nil
	}
	for len(p) > 0 && d.state != stateDone {
		switch d.state {
		case stateSize:
			p, err = d.feedSize(p)
			if err != nil {
				d.state = stateDone
				d.delivered = true
				return nil, false, err
			}
		case statePayload:
			p = d.feedPayload(p)
		case statePayloadTerminator:
			p = d.feedTerminator(p)
		}
	}
	if d.state == stateDone {
		d.delivered = true
		return d.body, true, nil
	}
	return nil, false, nil
}

// feedSize accumulates size-line bytes until a '\n' is seen, then
// parses the hex size preceding any '\r'.
func (d *Decoder) feedSize(p []byte) ([]byte, error) {
	i := bytes.IndexByte(p, '\n')
	if i < 0 {
		d.sizeBuf = append(d.sizeBuf, p...)
		return nil, nil
	}
	d.sizeBuf = append(d.sizeBuf, p[:i]...)
	rest := p[i+1:]

	line := d.sizeBuf
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	n, err := parseHexUint(line)
	d.sizeBuf = d.sizeBuf[:0]
	if err != nil {
		return nil, err
	}

	d.remaining = n
	d.isFinalChunk = n == 0
	d.terminatorAt = 0
	d.state = statePayload
	return rest, nil
}

func (d *Decoder) feedPayload(p []byte) []byte {
	take := d.remaining
	if uint64(len(p)) < take {
		take = uint64(len(p))
	}
	d.body = append(d.body, p[:take]...)
	d.remaining -= take
	rest := p[take:]
	if d.remaining == 0 {
		d.state = statePayloadTerminator
	}
	return rest
}

// feedTerminator discards the 2-byte CRLF that follows every chunk's
// payload, including the zero-size terminating chunk's own (empty)
// payload. After the zero-size chunk those two bytes end the body;
// trailer fields are not parsed.
func (d *Decoder) feedTerminator(p []byte) []byte {
	for d.terminatorAt < 2 && len(p) > 0 {
		p = p[1:]
		d.terminatorAt++
	}
	if d.terminatorAt == 2 {
		if d.isFinalChunk {
			d.state = stateDone
		} else {
			d.state = stateSize
		}
	}
	return p
}
