package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

const (
	maxTimeMultiplier  = 10.0
	timeMultiplierStep = 0.25
	panCells           = 4.0
)

type action uint8

const (
	actionNone action = iota
	actionQuit
	actionTogglePause
	actionFaster
	actionSlower
	actionNextTarget
	actionPanLeft
	actionPanRight
	actionPanUp
	actionPanDown
	actionRecenter
	actionZoomIn
	actionZoomOut
	actionTogglePrediction
)

// actionFor maps a key press to an action.
func actionFor(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyTab:
		return actionNextTarget
	case tcell.KeyLeft:
		return actionPanLeft
	case tcell.KeyRight:
		return actionPanRight
	case tcell.KeyUp:
		return actionPanUp
	case tcell.KeyDown:
		return actionPanDown
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actionQuit
		case ' ':
			return actionTogglePause
		case '+', '=':
			return actionFaster
		case '-', '_':
			return actionSlower
		case ']':
			return actionZoomIn
		case '[':
			return actionZoomOut
		case 'p':
			return actionTogglePrediction
		case 'c':
			return actionRecenter
		}
	}
	return actionNone
}

// clampMultiplier keeps the time multiplier within the range offered to the user.
func clampMultiplier(m float64) float64 {
	return math.Min(math.Max(m, 0), maxTimeMultiplier)
}

// apply runs an action and returns false when the app must stop.
func (a *app) apply(act action) bool {
	engine := a.scene.Engine()
	cam := &a.scene.Camera
	switch act {
	case actionQuit:
		return false
	case actionTogglePause:
		engine.SetPaused(!engine.Paused())
		a.logger.Log("level", "info", "subsys", "app", "paused", engine.Paused())
	case actionFaster:
		engine.SetTimeMultiplier(clampMultiplier(engine.TimeMultiplier() + timeMultiplierStep))
	case actionSlower:
		engine.SetTimeMultiplier(clampMultiplier(engine.TimeMultiplier() - timeMultiplierStep))
	case actionNextTarget:
		if t := a.scene.NextTarget(); t != nil {
			a.logger.Log("level", "info", "subsys", "app", "target", t.Name)
		}
	case actionPanLeft:
		cam.Pan(-panCells, 0)
	case actionPanRight:
		cam.Pan(panCells, 0)
	case actionPanUp:
		cam.Pan(0, -panCells)
	case actionPanDown:
		cam.Pan(0, panCells)
	case actionRecenter:
		cam.Recenter()
	case actionZoomIn:
		cam.ZoomIn()
	case actionZoomOut:
		cam.ZoomOut()
	case actionTogglePrediction:
		a.scene.ShowPrediction = !a.scene.ShowPrediction
	}
	return true
}
