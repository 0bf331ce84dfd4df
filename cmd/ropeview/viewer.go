package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 960
	screenHeight = 640
	margin       = 2.0
)

type viewer struct {
	scene  scene
	title  string
	zoom   float64
	panX   float64
	panY   float64
	layers struct {
		collisions bool
		cells      bool
	}
}

func newViewer(s scene, title string) *viewer {
	v := &viewer{scene: s, title: title, zoom: 1}
	v.layers.collisions = true
	v.layers.cells = true
	return v
}

func (v *viewer) Update() error {
	const pan = 8.0
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		v.panX += pan
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		v.panX -= pan
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		v.panY += pan
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		v.panY -= pan
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.zoom *= 1.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.zoom /= 1.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.layers.collisions = !v.layers.collisions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.layers.cells = !v.layers.cells
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	scale, off := v.scene.fit(screenWidth, screenHeight, margin)
	scale *= v.zoom
	off.X = off.X*v.zoom + v.panX - float64(screenWidth)*(v.zoom-1)/2
	off.Y = off.Y*v.zoom + v.panY - float64(screenHeight)*(v.zoom-1)/2
	at := func(p point) (float32, float32) {
		return float32(p.X*scale + off.X), float32(p.Y*scale + off.Y)
	}

	if v.layers.cells {
		for _, c := range v.scene.Cells {
			x, y := at(c)
			vector.FillRect(screen, x, y, float32(scale), float32(scale), color.RGBA{R: 120, G: 90, B: 40, A: 90}, false)
		}
	}
	for _, r := range v.scene.Ropes {
		x0, y0 := at(r.From)
		x1, y1 := at(r.To)
		vector.StrokeLine(screen, x0, y0, x1, y1, 3, colornames.Burlywood, true)
	}
	if v.layers.collisions {
		size := float32(scale / 8)
		for _, c := range v.scene.Collisions {
			x, y := at(c)
			vector.StrokeRect(screen, x-size/2, y-size/2, size, size, 1, colornames.Lightgrey, false)
		}
	}
	for _, k := range v.scene.Knots {
		x, y := at(k)
		size := float32(scale / 3)
		vector.FillRect(screen, x-size/2, y-size/2, size, size, colornames.Crimson, false)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  knots: %d  ropes: %d  [c] collisions  [h] cells  [+/-] zoom",
		v.title, len(v.scene.Knots), len(v.scene.Ropes)))
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}
