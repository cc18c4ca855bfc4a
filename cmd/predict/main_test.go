package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChristopherRabotin/starsys"
	kitlog "github.com/go-kit/kit/log"
)

func TestRun(t *testing.T) {
	s := starsys.DefaultScenario()
	s.Engine.Paused = false
	s.Export = starsys.ExportConfig{Dir: t.TempDir(), Filename: "run", AsCSV: true, Cosmo: true}
	if err := run(s, 10, 10*time.Millisecond, kitlog.NewNopLogger(), false); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(s.Export.Dir, "states-run.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1+10*2 {
		t.Fatalf("%d live records", len(records))
	}
	for _, name := range []string{"prediction-run.csv", "catalog-run.json", "prop-run-Earth.xyzv"} {
		if _, err := os.Stat(filepath.Join(s.Export.Dir, name)); err != nil {
			t.Fatalf("%s: %s", name, err)
		}
	}
}

func TestRunBadExportDir(t *testing.T) {
	s := starsys.DefaultScenario()
	s.Export = starsys.ExportConfig{Dir: filepath.Join(t.TempDir(), "missing"), Filename: "run", AsCSV: true}
	if err := run(s, 3, 10*time.Millisecond, kitlog.NewNopLogger(), false); err == nil {
		t.Fatal("missing directory accepted")
	}
}
