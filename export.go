package starsys

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState definition.
type CgInterpolatedState struct {
	JD       float64
	Position []float64
	Velocity []float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected seven items, got %d", len(record))
	}
	vals := make([]float64, 7)
	for j, item := range record {
		val, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return err
		}
		vals[j] = val
	}
	i.JD = vals[0]
	i.Position = vals[1:4]
	i.Velocity = vals[4:7]
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the records of an interpolated states file.
func ParseInterpolatedStates(s string) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.Comment = '#'
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, nil
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Dir       string
	Filename  string
	Cosmo     bool // Cosmographia catalog and interpolated states
	AsCSV     bool
	Timestamp bool // Append the creation time to the file names
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) path(prefix, name, ext string) string {
	if c.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(c.Dir, fmt.Sprintf("%s-%s.%s", prefix, name, ext))
}

// xyzvFile writes the interpolated states of one body.
type xyzvFile struct {
	f     *os.File
	item  *CgItems
	first time.Time
	last  time.Time
}

func (c ExportConfig) createInterpolatedFile(body string, start time.Time) (*xyzvFile, error) {
	filename := c.path("prop", c.Filename+"-"+body, "xyzv")
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	// Header
	if _, err := f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Simulation time start (UTC): %s`, time.Now().UTC(), start.UTC())); err != nil {
		f.Close()
		return nil, err
	}
	color := []float64{0.6, 1, 1}
	traj := CgTrajectory{Type: "InterpolatedStates", Source: filepath.Base(filename)}
	label := CgLabel{Color: color, FadeSize: 1000000, ShowText: true}
	plot := CgTrajectoryPlot{Color: color, LineWidth: 1, Lead: "0 d", SampleCount: 10}
	item := &CgItems{Class: "spacecraft", Name: body, StartTime: start.UTC().String(), Center: "Sun", TrajectoryFrame: "EclipticJ2000", Trajectory: &traj, Label: &label, TrajectoryPlot: &plot}
	return &xyzvFile{f: f, item: item, first: start, last: start}, nil
}

func (x *xyzvFile) write(dt time.Time, b Body) error {
	x.last = dt
	asTxt := CgInterpolatedState{JD: julian.TimeToJD(dt), Position: b.Position[:], Velocity: b.Velocity[:]}
	_, err := x.f.WriteString("\n" + asTxt.ToText())
	return err
}

func (x *xyzvFile) close() error {
	x.item.EndTime = x.last.UTC().String()
	x.item.TrajectoryPlot.Duration = fmt.Sprintf("%d d", int(x.last.Sub(x.first).Hours()/24+1))
	if _, err := x.f.WriteString(fmt.Sprintf("\n# Simulation time end (UTC): %s\n", x.last.UTC())); err != nil {
		x.f.Close()
		return err
	}
	return x.f.Close()
}

func (c ExportConfig) writeCatalog(items []*CgItems) error {
	cat := CgCatalog{Version: "1.0", Name: c.Filename, Items: items}
	marsh, err := json.Marshal(cat)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path("catalog", c.Filename, "json"), marsh, 0644)
}

// stateWriter exports successive states of the bodies.
type stateWriter struct {
	conf  ExportConfig
	xyzv  map[BodyID]*xyzvFile
	ids   []BodyID
	names map[string]bool // file labels in use
	csvF  *os.File
	csvW  *csv.Writer
}

func newStateWriter(conf ExportConfig, csvPrefix string) (*stateWriter, error) {
	w := &stateWriter{conf: conf, xyzv: make(map[BodyID]*xyzvFile), names: make(map[string]bool)}
	if conf.AsCSV {
		f, err := os.Create(conf.path(csvPrefix, conf.Filename, "csv"))
		if err != nil {
			return nil, err
		}
		w.csvF = f
		w.csvW = csv.NewWriter(f)
		if err := w.csvW.Write([]string{"time", "simTime", "step", "body", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
			f.Close()
			return nil, err
		}
	}
	return w, nil
}

// label returns a file label for the body which no other body uses.
func (w *stateWriter) label(id BodyID, name string) string {
	if name == "" {
		name = "body"
	}
	for w.names[name] {
		name = fmt.Sprintf("%s-%d", name, id)
	}
	w.names[name] = true
	return name
}

func (w *stateWriter) write(dt time.Time, simTime float64, step int, id BodyID, b Body) error {
	if w.conf.Cosmo && b.Kind == Movable {
		x, exists := w.xyzv[id]
		if !exists {
			var err error
			if x, err = w.conf.createInterpolatedFile(w.label(id, b.Name), dt); err != nil {
				return err
			}
			w.xyzv[id] = x
			w.ids = append(w.ids, id)
		}
		if err := x.write(dt, b); err != nil {
			return err
		}
	}
	if w.csvW != nil {
		rec := []string{dt.UTC().Format("2006-01-02 15:04:05"), strconv.FormatFloat(simTime, 'f', 6, 64), strconv.Itoa(step), b.Name}
		for _, v := range []float64{b.Position[0], b.Position[1], b.Position[2], b.Velocity[0], b.Velocity[1], b.Velocity[2]} {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.csvW.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *stateWriter) close() error {
	var firstErr error
	items := make([]*CgItems, 0, len(w.ids))
	for _, id := range w.ids {
		x := w.xyzv[id]
		if err := x.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		items = append(items, x.item)
	}
	if w.conf.Cosmo {
		if err := w.conf.writeCatalog(items); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.csvW != nil {
		w.csvW.Flush()
		if err := w.csvW.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := w.csvF.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// idAt returns the handle of the i-th body, or a position based one when the handles are missing.
func idAt(ids []BodyID, i int) BodyID {
	if i < len(ids) {
		return ids[i]
	}
	return BodyID(i + 1)
}

// ExportTrajectory writes a predicted trajectory. Step s of the prediction is dated at
// date(simTime + s*stepTime).
func ExportTrajectory(conf ExportConfig, traj Trajectory, date func(simTime float64) time.Time, simTime, stepTime float64) error {
	if conf.IsUseless() {
		return nil
	}
	w, err := newStateWriter(conf, "prediction")
	if err != nil {
		return err
	}
	for i, path := range traj.Frames {
		id := idAt(traj.IDs, i)
		for s, snap := range path {
			t := simTime + float64(s)*stepTime
			if err := w.write(date(t), t, s, id, snap); err != nil {
				w.close()
				return err
			}
		}
	}
	return w.close()
}

// StreamStates writes the states received on the channel until it is closed.
func StreamStates(conf ExportConfig, date func(simTime float64) time.Time, stateChan <-chan State) error {
	w, err := newStateWriter(conf, "states")
	if err != nil {
		// Drain so that the producer is never blocked.
		for range stateChan {
		}
		return err
	}
	var werr error
	step := 0
	for state := range stateChan {
		if werr != nil {
			continue
		}
		dt := date(state.SimTime)
		for i, b := range state.Bodies {
			if werr = w.write(dt, state.SimTime, step, idAt(state.IDs, i), b); werr != nil {
				break
			}
		}
		step++
	}
	if cerr := w.close(); werr == nil {
		werr = cerr
	}
	return werr
}
