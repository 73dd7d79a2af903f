package sim

import (
	"sync/atomic"

	"github.com/san-kum/mbdsim/internal/solver"
	"github.com/san-kum/mbdsim/internal/spatial"
)

// Snapshot is one fully-stepped view of the simulation. Fields are
// immutable once published; readers must not modify the slices.
type Snapshot struct {
	Time   float64
	State  []float64
	Energy float64
	// Poses holds the world transform of every link at State.
	Poses []spatial.Transform
}

// RealTime advances a plant against wall-clock time and publishes a
// post-step Snapshot atomically, so display or control loops on other
// goroutines never observe a half-stepped state. Advance must be called
// from a single goroutine; Snapshot may be called from any.
type RealTime struct {
	plant *Plant
	fs    *solver.FixedStep
	snap  atomic.Pointer[Snapshot]
}

func NewRealTime(plant *Plant, stepper solver.Stepper, dt float64, x0 []float64) (*RealTime, error) {
	fs, err := solver.NewFixedStep(plant, stepper, dt, x0)
	if err != nil {
		return nil, err
	}
	rt := &RealTime{plant: plant, fs: fs}
	rt.publish()
	return rt, nil
}

// SetMaxSubsteps caps catch-up steps per Advance.
func (rt *RealTime) SetMaxSubsteps(n int) { rt.fs.SetMaxSubsteps(n) }

// Advance banks elapsed wall seconds and runs the whole steps they cover.
// A new Snapshot is published only when at least one step completed.
func (rt *RealTime) Advance(elapsed float64) (int, error) {
	steps, err := rt.fs.Advance(elapsed)
	if steps > 0 {
		rt.publish()
	}
	if err != nil {
		return steps, &StepError{Step: steps, Time: rt.fs.Time(), Wrapped: err}
	}
	return steps, nil
}

// Snapshot returns the most recently published state.
func (rt *RealTime) Snapshot() *Snapshot {
	return rt.snap.Load()
}

func (rt *RealTime) Dt() float64 { return rt.fs.Dt() }

func (rt *RealTime) publish() {
	x := rt.fs.State(nil)
	m := rt.plant.Mechanism()
	m.SetState(x)
	m.UpdateKinematics()

	poses := make([]spatial.Transform, m.NumLinks())
	for i := range poses {
		poses[i] = m.LinkTransform(i)
	}

	rt.snap.Store(&Snapshot{
		Time:   rt.fs.Time(),
		State:  x,
		Energy: m.Energy(rt.plant.Gravity()),
		Poses:  poses,
	})
}
