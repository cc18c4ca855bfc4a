package main

import (
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ChristopherRabotin/starsys"
	kitlog "github.com/go-kit/kit/log"
)

// Runs a scenario without any display, and exports the live states and the final prediction.

const defaultScenario = "~~unset~~"

var (
	scenarioPath string
	frames       int
	frameStep    time.Duration
	outDir       string
	verbose      bool
)

func init() {
	flag.StringVar(&scenarioPath, "scenario", defaultScenario, "scenario TOML file (defaults to a star and a planet)")
	flag.IntVar(&frames, "frames", 600, "number of updates to run")
	flag.DurationVar(&frameStep, "step", 16*time.Millisecond, "wall clock duration of each update")
	flag.StringVar(&outDir, "out", "", "export directory (overrides the scenario)")
	flag.BoolVar(&verbose, "verbose", false, "log every engine event")
}

func main() {
	flag.Parse()
	s := starsys.DefaultScenario()
	s.Engine.Paused = false
	s.Export.AsCSV = true
	if scenarioPath != defaultScenario {
		var err error
		if s, err = starsys.LoadScenario(scenarioPath); err != nil {
			log.Fatalf("%s", err)
		}
	}
	if outDir != "" {
		s.Export.Dir = outDir
	}
	if err := os.MkdirAll(s.Export.Dir, 0755); err != nil {
		log.Fatalf("could not create %s: %s", s.Export.Dir, err)
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	if err := run(s, frames, frameStep, logger, verbose); err != nil {
		log.Fatalf("%s", err)
	}
}

// run integrates the scenario for the provided number of frames of fixed duration.
func run(s starsys.Scenario, frames int, step time.Duration, logger kitlog.Logger, verbose bool) error {
	engine := starsys.NewEngine(s.Engine, starsys.NewFixedStep(s.Epoch, step))
	if verbose {
		engine.SetLogger(logger)
	} else {
		engine.SetLogger(kitlog.NewNopLogger())
	}
	for _, b := range s.NewBodies() {
		engine.AddBody(b)
	}

	stateChan := make(chan starsys.State, 16)
	var wg sync.WaitGroup
	var streamErr error
	if s.Export.AsCSV {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conf := s.Export
			conf.Cosmo = false
			streamErr = starsys.StreamStates(conf, s.Date, stateChan)
		}()
	}

	start := starsys.TotalEnergy(s.Engine.G, engine.State().Bodies)
	for i := 0; i < frames; i++ {
		engine.Update()
		if s.Export.AsCSV {
			stateChan <- engine.State()
		}
	}
	close(stateChan)
	wg.Wait()
	if streamErr != nil {
		return streamErr
	}

	end := engine.State()
	logger.Log("level", "info", "subsys", "predict", "frames", frames, "simTime", end.SimTime, "date", s.Date(end.SimTime).Format(time.RFC3339), "energyStart", start, "energyEnd", starsys.TotalEnergy(s.Engine.G, end.Bodies))
	return starsys.ExportTrajectory(s.Export, engine.Prediction(), s.Date, end.SimTime, s.Engine.PredictionStepTime)
}
