// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

// stream opens an MJPEG stream on d and returns its part reader.
func stream(t *testing.T, d *Dev, target string) *multipart.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	srv := httptest.NewServer(d)
	t.Cleanup(srv.Close)
	t.Cleanup(srv.CloseClientConnections)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+target, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if got, want := resp.StatusCode, http.StatusOK; got != want {
		t.Fatalf("status %d, want %d", got, want)
	}
	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type is %q", mediaType)
	}
	return multipart.NewReader(resp.Body, params["boundary"])
}

// nextFrame reads and decodes one part.
func nextFrame(t *testing.T, mr *multipart.Reader, wantType string) image.Image {
	t.Helper()
	part, err := mr.NextPart()
	if err != nil {
		t.Fatal(err)
	}
	defer part.Close()
	if got := part.Header.Get("Content-Type"); got != wantType {
		t.Errorf("part Content-Type %q, want %q", got, wantType)
	}
	n, err := strconv.Atoi(part.Header.Get("Content-Length"))
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(part)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != n {
		t.Errorf("read %d bytes, Content-Length is %d", len(content), n)
	}
	decode := png.Decode
	if wantType == "image/jpeg" {
		decode = jpeg.Decode
	}
	img, err := decode(bytes.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestServeHTTP_frames(t *testing.T) {
	ink := color.NRGBA{0, 0, 0, 255}
	bg := color.NRGBA{255, 255, 255, 255}
	d := New(&Opts{W: io.Discard, Ink: ink, Background: bg, Scale: 2})
	mr := stream(t, d, "/")

	img := nextFrame(t, mr, "image/png")
	if got, want := img.Bounds().Size(), image.Pt(2*pcd8544.Width, 2*pcd8544.Height); got != want {
		t.Fatalf("frame size %v, want %v", got, want)
	}
	if !sameColor(img.At(0, 0), bg) {
		t.Errorf("powered down panel shows %v", img.At(0, 0))
	}

	send(t, d, pcd8544.Command, 0x20, 0x0C)
	send(t, d, pcd8544.Data, 0x01)
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	img = nextFrame(t, mr, "image/png")
	for _, tc := range []struct {
		x, y int
		want color.Color
	}{
		{0, 0, ink},
		{1, 1, ink},
		{2, 0, bg},
		{0, 2, bg},
	} {
		if got := img.At(tc.x, tc.y); !sameColor(got, tc.want) {
			t.Errorf("At(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.NextPart(); err == nil {
		t.Error("Halt() must end the stream")
	}
}

func TestServeHTTP_format(t *testing.T) {
	for _, tc := range []struct {
		format   Format
		target   string
		wantType string
	}{
		{PNG, "/", "image/png"},
		{JPEG, "/", "image/jpeg"},
		{JPEG, "/?format=png", "image/png"},
		{PNG, "/?format=jpg", "image/jpeg"},
	} {
		t.Run(fmt.Sprint(tc), func(t *testing.T) {
			d := New(&Opts{W: io.Discard, Format: tc.format, Scale: 1})
			mr := stream(t, d, tc.target)
			img := nextFrame(t, mr, tc.wantType)
			if got, want := img.Bounds(), d.Bounds(); got != want {
				t.Errorf("frame bounds %v, want %v", got, want)
			}
			if err := d.Halt(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestServeHTTP_status(t *testing.T) {
	for _, tc := range []struct {
		method     string
		target     string
		wantStatus int
	}{
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodGet, "/?format=bmp", http.StatusBadRequest},
	} {
		t.Run(fmt.Sprint(tc), func(t *testing.T) {
			d := New(&Opts{W: io.Discard})
			srv := httptest.NewServer(d)
			t.Cleanup(srv.Close)
			req, err := http.NewRequest(tc.method, srv.URL+tc.target, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if got := resp.StatusCode; got != tc.wantStatus {
				t.Errorf("%s %s returned %d, want %d", tc.method, tc.target, got, tc.wantStatus)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		format       Format
		wantString   string
		wantMimeType string
	}{
		{Format(-1), "-1", "application/octet-stream"},
		{PNG, "PNG", "image/png"},
		{JPEG, "JPEG", "image/jpeg"},
	} {
		if got := tc.format.String(); got != tc.wantString {
			t.Errorf("String() = %q, want %q", got, tc.wantString)
		}
		if got := tc.format.mimeType(); got != tc.wantMimeType {
			t.Errorf("mimeType() = %q, want %q", got, tc.wantMimeType)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("expected error")
	}
}

var boundaryRe = regexp.MustCompile(`^[a-f0-9]{68}$`)

func TestRandomBoundary(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := randomBoundary(); !boundaryRe.MatchString(got) {
			t.Errorf("boundary must match %q: %s", boundaryRe, got)
		}
	}
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
