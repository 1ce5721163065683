/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package httpclient

import (
	"log"
	"os"
)

// NewStderrLogger returns a *log.Logger writing to os.Stderr with
// prefix, for callers that want SetLogger wired up without building
// their own log.Logger. The nil-able *log.Logger field itself is the
// package's logging convention; this is just a convenience constructor
// for the common case.
func NewStderrLogger(prefix string) *log.Logger {
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
