/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package sock

import (
	"net"
	"strconv"
	"testing"
)

func TestDialerOpenPlaintextRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		serverConn, err := ln.Accept()
		if err != nil {
			return
		}
		defer serverConn.Close()
		buf := make([]byte, 5)
		net.Conn(serverConn).Read(buf)
		serverConn.Write([]byte("pong"))
	}()

	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	d := NewDialer()
	conn, err := d.Open(host, port, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	if err := conn.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 4)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "pong" {
		t.Fatalf("got %q, want %q", buf[:n], "pong")
	}
	<-done
}

func TestDialerOpenConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	ln.Close()

	d := NewDialer()
	_, err = d.Open(host, port, false)
	if err == nil {
		t.Fatalf("expected a dial error against a closed port")
	}
	if _, ok := err.(*DialError); !ok {
		t.Fatalf("error = %T, want *DialError", err)
	}
}
