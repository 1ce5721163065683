/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package url

import "strings"

// Split parses a URL string into its protocol, host, port and path. It
// never returns an error: malformed or partial input degrades to
// defaults rather than failing. Split does not resolve Protocol/Port
// against each other the way a request builder's invariant requires,
// see Resolve for that.
func Split(raw string) Components {
	s := strings.TrimFunc(raw, isASCIIWhitespace)
	if s == "" {
		return Components{Path: "/"}
	}

	protocol := Unknown
	if i := strings.Index(s, "://"); i >= 0 {
		switch strings.ToLower(s[:i]) {
		case "http":
			protocol = HTTP
		case "https":
			protocol = HTTPS
		default:
			protocol = Unknown
		}
		s = s[i+len("://"):]
	}

	authority := s
	path := "/"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		authority = s[:i]
		path = s[i:]
	}

	host, port, hasPort := splitAuthority(authority)

	c := Components{
		Protocol:        protocol,
		Host:            host,
		Port:            port,
		Path:            path,
		HasExplicitPort: hasPort,
	}
	if !hasPort {
		c.Port = protocol.DefaultPort()
	}
	return c
}

// splitAuthority splits "host" or "host:port" at the last ':'. A
// suffix that parses as a non-negative integer is the port; otherwise
// the whole string is the host and no port is set. This also keeps a
// bare hostname with no ':' intact, since strings.LastIndexByte
// returns -1 for it.
func splitAuthority(authority string) (host string, port int, hasPort bool) {
	i := strings.LastIndexByte(authority, ':')
	if i < 0 {
		return authority, 0, false
	}
	suffix := authority[i+1:]
	if n, ok := parseNonNegativeInt(suffix); ok {
		return authority[:i], n, true
	}
	return authority, 0, false
}

func parseNonNegativeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
