package main

import (
	"fmt"

	"github.com/ChristopherRabotin/starsys/scene"
	"github.com/gdamore/tcell/v2"
)

var spriteStyles = map[scene.SpriteKind]tcell.Style{
	scene.TrailSprite:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	scene.StarSprite:   tcell.StyleDefault.Foreground(tcell.ColorYellow),
	scene.PlanetSprite: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	scene.TargetSprite: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
}

// status returns the text of the status line.
func (a *app) status() string {
	engine := a.scene.Engine()
	state := "running"
	if engine.Paused() {
		state = "paused"
	}
	target := "-"
	if t := a.scene.Camera.Target(); t != nil {
		target = t.Name
	}
	return fmt.Sprintf(" %s  x%.2f  t=%.2f  target=%s  zoom=%.2f  [space] pause [+/-] speed [tab] target [arrows] pan [ [ ] ] zoom [p] prediction [q] quit",
		state, engine.TimeMultiplier(), engine.SimTime(), target, a.scene.Camera.Zoom)
}

func (a *app) drawText(col, row int, text string, style tcell.Style) {
	for _, r := range text {
		a.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func (a *app) draw() {
	a.screen.Clear()
	a.sprites = a.scene.Sprites(a.proj, a.sprites)
	for _, sp := range a.sprites {
		a.screen.SetContent(sp.Col, sp.Row, sp.Glyph, nil, spriteStyles[sp.Kind])
	}
	for _, sp := range a.sprites {
		if sp.Kind == scene.TargetSprite {
			a.drawText(sp.Col+2, sp.Row, sp.Name, spriteStyles[sp.Kind])
		}
	}
	_, height := a.screen.Size()
	a.drawText(0, height-1, a.status(), tcell.StyleDefault.Reverse(true))
	a.screen.Show()
}
