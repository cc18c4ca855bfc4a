package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ChristopherRabotin/starsys"
	"github.com/ChristopherRabotin/starsys/scene"
	"github.com/gdamore/tcell/v2"
	kitlog "github.com/go-kit/kit/log"
)

const (
	defaultScenario = "~~unset~~"
	frameTime       = 16 * time.Millisecond // ~60 FPS
	statusEvery     = 5 * time.Second
)

var (
	scenarioPath string
	logPath      string
)

func init() {
	flag.StringVar(&scenarioPath, "scenario", defaultScenario, "scenario TOML file (defaults to a star and a planet)")
	flag.StringVar(&logPath, "log", "starsim.log", "log file")
}

// app holds everything the main loop needs. There is no global state.
type app struct {
	screen  tcell.Screen
	scene   *scene.Scene
	proj    scene.Projector
	sprites []scene.Sprite
	logger  kitlog.Logger
	lastLog time.Time
}

func newApp(screen tcell.Screen, sc *scene.Scene, logger kitlog.Logger) *app {
	a := &app{screen: screen, scene: sc, logger: logger, lastLog: time.Now()}
	if screen != nil {
		w, h := screen.Size()
		a.resize(w, h)
	}
	return a
}

// resize keeps the last row for the status line.
func (a *app) resize(width, height int) {
	if height > 1 {
		height--
	}
	a.proj = scene.NewProjector(width, height)
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.apply(actionFor(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize(a.screen.Size())
	}
	return true
}

func (a *app) run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.scene.Update()
			if time.Since(a.lastLog) > statusEvery {
				a.scene.Engine().LogStatus()
				a.lastLog = time.Now()
			}
			a.draw()
		}
	}
}

func main() {
	flag.Parse()
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("could not open log file: %s", err)
	}
	defer f.Close()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(f))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	s := starsys.DefaultScenario()
	if scenarioPath != defaultScenario {
		if s, err = starsys.LoadScenario(scenarioPath); err != nil {
			log.Fatalf("%s", err)
		}
	}
	sc := scene.FromScenario(s, starsys.RealTime{}, logger)
	defer sc.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	logger.Log("level", "info", "subsys", "app", "scenario", s.Name, "bodies", len(s.Bodies))
	newApp(screen, sc, logger).run()
}
