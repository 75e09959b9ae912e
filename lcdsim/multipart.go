// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// randomBoundary returns a MIME multipart boundary compatible with RFC 2046
// section 5.1.1.
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// frameWriter writes an endless MIME multipart body, one image per part.
//
// mime/multipart.Writer cannot be used: each part must be terminated by its
// boundary line as soon as it is written so the client shows it.
type frameWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newFrameWriter(w io.Writer) *frameWriter {
	return &frameWriter{w: w, boundary: randomBoundary()}
}

// writeFrame sends one part. It sets Content-Length in h.
func (f *frameWriter) writeFrame(h textproto.MIMEHeader, body []byte) error {
	h.Set("Content-Length", strconv.Itoa(len(body)))
	var buf bytes.Buffer
	if !f.started {
		fmt.Fprintf(&buf, "--%s\r\n", f.boundary)
		f.started = true
	}
	for name, values := range h {
		for _, v := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", f.boundary)
	_, err := buf.WriteTo(f.w)
	return err
}
