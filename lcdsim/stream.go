// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log"
	"mime"
	"net/http"
	"net/textproto"

	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

// Format is the image encoding of frames sent to HTTP clients.
type Format int

// Supported formats.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprint(int(f))
	}
}

func (f Format) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// ParseFormat returns the Format for a "format" URL parameter value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("lcdsim: unrecognized image format %q", s)
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

// ServeHTTP implements http.Handler.
//
// It answers GET requests with a never ending multipart/x-mixed-replace
// stream (MJPEG) of the panel, one frame per Refresh. Clients may pick the
// encoding with "?format=png" or "?format=jpeg".
func (d *Dev) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("lcdsim: closing request body failed: %v", err)
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f := d.format
	if v := r.URL.Query().Get("format"); v != "" {
		var err error
		if f, err = ParseFormat(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	fw := newFrameWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": fw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.clients, c)
		d.mu.Unlock()
	}()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", f.mimeType())
	h.Set("Content-Transfer-Encoding", "binary")
	for {
		frame, err := d.frame(f)
		if err != nil {
			log.Printf("lcdsim: encoding %s frame failed: %v", f, err)
			return
		}
		// A failed write means the client is gone; there is no way to report
		// an error inside an image stream.
		if err := fw.writeFrame(h, frame); err != nil {
			return
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// frame returns the encoded panel. Encoded frames are immutable and shared by
// all clients until the next Refresh.
func (d *Dev) frame(f Format) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.frames[f]; ok {
		return b, nil
	}
	img := d.renderLocked()
	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = pngEncoder.Encode(&buf, img)
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	default:
		err = fmt.Errorf("unhandled image format %s", f)
	}
	if err != nil {
		return nil, err
	}
	d.frames[f] = buf.Bytes()
	return d.frames[f], nil
}

// renderLocked returns the panel in Ink and Background colors, each pixel
// scaled to a scale*scale square.
func (d *Dev) renderLocked() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.scale*pcd8544.Width, d.scale*pcd8544.Height))
	ink := image.NewUniform(d.ink)
	bg := image.NewUniform(d.bg)
	for y := 0; y < pcd8544.Height; y++ {
		for x := 0; x < pcd8544.Width; x++ {
			src := bg
			if d.visible(x, y) {
				src = ink
			}
			r := image.Rect(x*d.scale, y*d.scale, (x+1)*d.scale, (y+1)*d.scale)
			draw.Draw(img, r, src, image.Point{}, draw.Src)
		}
	}
	return img
}

// publishLocked drops the encoded frames and wakes up every client.
func (d *Dev) publishLocked() {
	for f := range d.frames {
		delete(d.frames, f)
	}
	for c := range d.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (d *Dev) terminateClientsLocked() {
	for c := range d.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

var _ http.Handler = &Dev{}
