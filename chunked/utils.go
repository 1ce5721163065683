/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package chunked

import "errors"

// parseHexUint parses v as base-16, rejecting anything that isn't a
// hex digit and any value that would overflow 64 bits. It walks the
// bytes itself rather than delegating to strconv so it can reject a
// leading '+' and non-hex bytes in the same pass, and treat overflow
// as a parse failure.
func parseHexUint(v []byte) (uint64, error) {
	if len(v) == 0 {
		return 0, errors.New("chunked: empty chunk size")
	}
	var n uint64
	for i, b := range v {
		var digit byte
		switch {
		case '0' <= b && b <= '9':
			digit = b - '0'
		case 'a' <= b && b <= 'f':
			digit = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			digit = b - 'A' + 10
		default:
			return 0, errors.New("chunked: invalid byte in chunk length")
		}
		if i == 16 {
			return 0, errors.New("chunked: chunk length too large")
		}
		n <<= 4
		n |= uint64(digit)
	}
	return n, nil
}
