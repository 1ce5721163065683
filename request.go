/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"bytes"
	"errors"
	"log"
	"strconv"
	"time"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
	"golang.org/x/net/proxy"

	"github.com/badu/httpclient/hdr"
	"github.com/badu/httpclient/sock"
	"github.com/badu/httpclient/url"
)

// defaultUserAgent and the Accept header seeded by seedDefaultHeaders
// are the client's default headers: a caller's explicit AddHeader call
// for the same name is appended after these and shadows them for
// servers that take the last occurrence, while both are written to
// the wire.
const defaultUserAgent = "badu-httpclient/1.0"

// Request is a single-use builder for one HTTP/1.1 exchange. Every
// fluent method consumes and returns the same *Request; Send (or
// SendAsync) is the only thing that actually opens a socket.
type Request struct {
	method     string
	rawURL     string
	components url.Components

	headers       hdr.Header
	rawHeaderText string
	body          []byte

	callbacks *Callbacks
	logger    *log.Logger
	dialer    *sock.Dialer
}

// MakeRequest builds a Request for method against rawURL. rawURL is
// URI-encoded and split before defaultProtocol (HTTP unless given) is
// applied to resolve an Unknown protocol or missing port.
func MakeRequest(method, rawURL string, defaultProtocol ...url.Protocol) *Request {
	proto := url.HTTP
	if len(defaultProtocol) > 0 {
		proto = defaultProtocol[0]
	}
	encoded := url.Encode(rawURL)
	comps := url.Split(encoded).Resolve(proto)

	r := &Request{
		method:     method,
		rawURL:     encoded,
		components: comps,
		callbacks:  &Callbacks{},
		dialer:     sock.NewDialer(),
	}
	r.seedDefaultHeaders()
	return r
}

// Get builds a GET Request. See MakeRequest.
func Get(rawURL string, defaultProtocol ...url.Protocol) *Request {
	return MakeRequest("GET", rawURL, defaultProtocol...)
}

// Post builds a POST Request. See MakeRequest.
func Post(rawURL string, defaultProtocol ...url.Protocol) *Request {
	return MakeRequest("POST", rawURL, defaultProtocol...)
}

// Put builds a PUT Request. See MakeRequest.
func Put(rawURL string, defaultProtocol ...url.Protocol) *Request {
	return MakeRequest("PUT", rawURL, defaultProtocol...)
}

func (r *Request) seedDefaultHeaders() {
	r.headers.Add(hdr.Accept, "*/*")
	r.headers.Add(hdr.UserAgent, defaultUserAgent)
}

// AddHeader appends a single header field.
func (r *Request) AddHeader(name, value string) *Request {
	r.headers.Add(name, value)
	return r
}

// AddHeaders appends each field, in order.
func (r *Request) AddHeaders(fields ...hdr.Field) *Request {
	for _, f := range fields {
		r.headers.Add(f.Name, f.Value)
	}
	return r
}

// AddHeadersRaw appends a verbatim header block, ensuring it ends with
// a single trailing CRLF.
func (r *Request) AddHeadersRaw(block string) *Request {
	for len(block) > 0 && (block[len(block)-1] == '\n' || block[len(block)-1] == '\r') {
		block = block[:len(block)-1]
	}
	if block != "" {
		r.rawHeaderText += block + "\r\n"
	}
	return r
}

// SetBody replaces the request body, overwriting any previous body.
func (r *Request) SetBody(body []byte) *Request {
	r.body = body
	return r
}

// SetBodyString is SetBody for a string payload.
func (r *Request) SetBodyString(body string) *Request {
	return r.SetBody([]byte(body))
}

// SetRawProgressCallback installs the raw-progress hook.
func (r *Request) SetRawProgressCallback(f func(RawProgressEvent)) *Request {
	r.callbacks.OnRawProgress = f
	return r
}

// SetHeadersCallback installs the headers-ready hook.
func (r *Request) SetHeadersCallback(f func(HeadersEvent)) *Request {
	r.callbacks.OnHeaders = f
	return r
}

// SetBodyProgressCallback installs the body-progress hook.
func (r *Request) SetBodyProgressCallback(f func(BodyProgressEvent)) *Request {
	r.callbacks.OnBodyProgress = f
	return r
}

// SetFinishedCallback installs the finished hook.
func (r *Request) SetFinishedCallback(f func(FinishedEvent)) *Request {
	r.callbacks.OnFinished = f
	return r
}

// SetLogger wires an optional diagnostics logger; nil (the default)
// is silent.
func (r *Request) SetLogger(l *log.Logger) *Request {
	r.logger = l
	r.dialer.Logger = l
	return r
}

// SetProxy routes the dial through a SOCKS5 proxy at addr instead of
// dialing the target directly.
func (r *Request) SetProxy(addr string, auth *proxy.Auth) *Request {
	r.dialer.ProxyAddr = addr
	r.dialer.ProxyAuth = auth
	return r
}

func (r *Request) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// Send opens a connection, writes the serialized request and drives
// the receive loop to completion, using the default read buffer size.
func (r *Request) Send() (*Response, error) {
	return r.SendWithBufferSize(DefaultReadBufferSize)
}

// SendWithBufferSize is Send with a caller-chosen read buffer size in
// bytes.
func (r *Request) SendWithBufferSize(n int) (*Response, error) {
	start := time.Now()

	host, err := r.encodedHost()
	if err != nil {
		return nil, newConnectionFailedError("invalid host: "+err.Error(), false)
	}

	useTLS := r.components.Protocol == url.HTTPS
	r.logf("httpclient: %s %s%s (tls=%v)", r.method, host, r.components.Path, useTLS)

	conn, err := r.dialer.Open(host, r.components.Port, useTLS)
	if err != nil {
		var de *sock.DialError
		if errors.As(err, &de) {
			return nil, newConnectionFailedError(de.Reason, de.IsTLSFailure)
		}
		return nil, newConnectionFailedError(err.Error(), false)
	}
	defer conn.Close()

	wire := r.buildWireBytes(host)
	if err := conn.Write(wire); err != nil {
		return nil, newConnectionFailedError(err.Error(), false)
	}

	resp, err := runReceiveLoop(conn, r.rawURL, r.callbacks, n, start)
	if err != nil {
		r.logf("httpclient: %s %s failed: %v", r.method, host, err)
		return nil, err
	}
	r.logf("httpclient: %s %s -> %d in %.2fms", r.method, host, resp.StatusCode(), resp.TotalTimeMS())
	return resp, nil
}

// encodedHost converts a non-ASCII host to its ACE ("xn--") form
// (RFC 5890) before it is used for both dialing and the Host header.
func (r *Request) encodedHost() (string, error) {
	host := r.components.Host
	for i := 0; i < len(host); i++ {
		if host[i] >= 0x80 {
			return idna.Lookup.ToASCII(host)
		}
	}
	return host, nil
}

// buildWireBytes serializes the request line, headers and body onto
// the wire, dropping any header field (defaults, AddHeader, AddHeaders)
// whose name or value is not a valid HTTP token/field-value
// (header/request-splitting hardening, the same concern
// golang.org/x/net/http/httpguts serves in the teacher's header
// writer) rather than failing the whole request over it. Text added
// through AddHeadersRaw is written verbatim and is not checked.
func (r *Request) buildWireBytes(host string) []byte {
	var b bytes.Buffer
	b.WriteString(r.method)
	b.WriteByte(' ')
	b.WriteString(r.components.Path)
	b.WriteString(" HTTP/1.1\r\n")
	b.WriteString(hdr.Host)
	b.WriteString(": ")
	b.WriteString(host)
	b.WriteString("\r\n")
	b.WriteString(r.rawHeaderText)

	for _, f := range r.headers {
		if !httpguts.ValidHeaderFieldName(f.Name) || !httpguts.ValidHeaderFieldValue(f.Value) {
			continue
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}

	if len(r.body) > 0 {
		b.WriteString(hdr.TransferEncoding)
		b.WriteString(": identity\r\n")
		b.WriteString(hdr.ContentLength)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(len(r.body)))
		b.WriteString("\r\n")
	}

	b.WriteString("\r\n")
	b.Write(r.body)
	return b.Bytes()
}
