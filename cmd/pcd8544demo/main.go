// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pcd8544demo draws a few scenes on a Nokia 5110 LCD.
//
// Use -sim to show them on the terminal instead, and -http to also watch the
// emulated panel in a web browser.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/lcddevices/lcdsim"
	"github.com/GermanBionicSystems/lcddevices/pcd8544"
)

func main() {
	spiName := flag.String("spi", "", "SPI port to use")
	dcName := flag.String("dc", "GPIO23", "D/C pin")
	rstName := flag.String("rst", "GPIO24", "reset pin, empty if not wired")
	blName := flag.String("bl", "", "backlight pin, empty if not wired")
	contrast := flag.Int("contrast", int(pcd8544.DefaultOpts.Contrast), "contrast, 0 to 127")
	sim := flag.Bool("sim", false, "render on the terminal instead of the LCD")
	addr := flag.String("http", "", "with -sim, serve the panel as MJPEG on this address")
	pause := flag.Duration("pause", 2*time.Second, "time each scene is shown")
	flag.Parse()
	if flag.NArg() != 0 {
		log.Fatal("unexpected argument")
	}

	opts := pcd8544.DefaultOpts
	opts.Contrast = byte(*contrast)

	var dev *pcd8544.Dev
	refresh := func() error { return nil }
	if *sim {
		s := lcdsim.New(nil)
		defer s.Halt()
		var err error
		if dev, err = pcd8544.New(s, &opts); err != nil {
			log.Fatal(err)
		}
		refresh = s.Refresh
		if *addr != "" {
			go func() {
				log.Fatal(http.ListenAndServe(*addr, s))
			}()
		}
		fmt.Fprint(os.Stdout, "\033[2J")
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatal(err)
		}
		p, err := spireg.Open(*spiName)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		dc := gpioreg.ByName(*dcName)
		if dc == nil {
			log.Fatalf("invalid D/C pin %q", *dcName)
		}
		opts.Reset = optionalPin(*rstName)
		opts.Backlight = optionalPin(*blName)
		if dev, err = pcd8544.NewSPI(p, dc, &opts); err != nil {
			log.Fatalf("failed to initialize display: %v", err)
		}
		defer dev.Halt()
	}

	for _, scene := range []func(*pcd8544.Dev) error{primitives, text, vector} {
		if err := dev.Clear(); err != nil {
			log.Fatal(err)
		}
		if err := scene(dev); err != nil {
			log.Fatal(err)
		}
		if err := refresh(); err != nil {
			log.Fatal(err)
		}
		time.Sleep(*pause)
	}
	if opts.Backlight != nil {
		if err := dev.SetBacklight(gpio.DutyHalf); err != nil {
			log.Fatal(err)
		}
	}
}

func optionalPin(name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		log.Fatalf("invalid pin %q", name)
	}
	return p
}

// primitives draws a border, a fan of lines and a few filled boxes.
func primitives(dev *pcd8544.Dev) error {
	if err := dev.Rect(0, 0, pcd8544.Width-1, pcd8544.Height-1); err != nil {
		return err
	}
	cx, cy := pcd8544.Width/2, pcd8544.Height/2
	for a := 0.0; a < 2*math.Pi; a += math.Pi / 8 {
		x := cx + int(math.Round(20*math.Cos(a)))
		y := cy + int(math.Round(20*math.Sin(a)))
		if err := dev.Line(cx, cy, x, y); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		if err := dev.FillRect(3+i*4, 3, 6+i*4, 8+i*4); err != nil {
			return err
		}
	}
	return nil
}

func text(dev *pcd8544.Dev) error {
	lines := []string{"pcd8544", "84x48 LCD", "", "periph.io"}
	for i, l := range lines {
		if err := dev.MoveTo(0, i); err != nil {
			return err
		}
		if err := dev.Print(l); err != nil {
			return err
		}
	}
	return nil
}

// vector renders an anti-aliased scene off screen and sends it as a whole
// frame.
func vector(dev *pcd8544.Dev) error {
	img, err := renderVector()
	if err != nil {
		return err
	}
	return dev.Draw(dev.Bounds(), img, image.Point{})
}

// renderVector draws dark strokes on a clear background, like the panel
// shows them.
func renderVector() (*image1bit.VerticalLSB, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(pcd8544.Width, pcd8544.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawCircle(14, 24, 10)
	dc.Stroke()
	dc.DrawRoundedRectangle(30, 6, 50, 36, 6)
	dc.Stroke()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 11}))
	dc.DrawStringAnchored("Go", 55, 24, 0.5, 0.5)
	return toPanel(dc.Image()), nil
}

// toPanel thresholds src so that its dark pixels become image1bit.On, a dark
// LCD pixel. image1bit.BitModel alone would map white to On.
func toPanel(src image.Image) *image1bit.VerticalLSB {
	b := src.Bounds()
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			img.SetBit(x-b.Min.X, y-b.Min.Y, image1bit.Bit(g.Y < 0x80))
		}
	}
	return img
}
