/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package hdr

import "strings"

// Add appends a Field to h, preserving whatever was already there.
// Unlike net/http's Header.Add, the name is stored exactly as given:
// no canonicalization happens on write, only on lookup.
func (h *Header) Add(name, value string) {
	*h = append(*h, Field{Name: name, Value: value})
}

// Get returns the value of the first Field whose name equals name
// under ASCII case folding, and true. If no Field matches, it
// returns "", false.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h {
		if equalFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value recorded under name, in insertion order.
func (h Header) Values(name string) []string {
	var out []string
	for _, f := range h {
		if equalFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Has reports whether any Field's name equals name under ASCII case
// folding.
func (h Header) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Del removes every Field whose name equals name under ASCII case
// folding, preserving the relative order of what remains.
func (h *Header) Del(name string) {
	kept := (*h)[:0]
	for _, f := range *h {
		if !equalFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	*h = kept
}

// Clone returns an independent copy of h.
func (h Header) Clone() Header {
	h2 := make(Header, len(h))
	copy(h2, h)
	return h2
}

// String serializes h in wire format, one "Name: Value\r\n" line per
// Field, in insertion order. It never sorts: ordering is part of the
// caller-visible contract.
func (h Header) String() string {
	var b strings.Builder
	for _, f := range h {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	return b.String()
}
