// Package mech assembles links and joints into an articulated mechanism
// and computes its forward dynamics with the articulated-body algorithm.
//
// A mechanism is a tree of rigid links over a flat arena: each link stores
// the index of its parent, and the traversal order (parents before
// children) is fixed at construction and reused for every dynamics pass.
// Structure never changes after construction; only joint state and the
// per-step applied forces do.
package mech

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/joint"
	"github.com/san-kum/mbdsim/internal/spatial"
)

// WorldIndex is the parent index marking a link attached to the fixed world.
const WorldIndex = -1

// LinkSpec describes one link of the topology handed to New: its parent,
// the joint connecting it to the parent, its inertia and the fixed
// transform from the parent's frame to the joint frame.
type LinkSpec struct {
	Name    string
	Parent  int
	Joint   joint.Joint
	Inertia spatial.Inertia
	Offset  spatial.Transform
}

type link struct {
	name    string
	parent  int
	joint   joint.Joint
	inertia spatial.Inertia
	xt      spatial.Transform

	// state vector layout
	qi, nq int
	vi, nv int

	// motion subspace columns, joint-local frame
	s []spatial.Motion

	// pass scratch, valid for the state of the last kinematics update
	xl  spatial.Transform // parent frame -> link frame
	x   spatial.Transform // world -> link frame
	v   spatial.Motion
	c   spatial.Motion
	a   spatial.Motion
	iab spatial.ABInertia
	pa  spatial.Force
	bu  []spatial.Force // IA * s_k
	bd  float64         // s . IA s (1-DOF joints)
	uu  float64         // tau - s . pa (1-DOF joints)
}

// Mechanism is an articulated rigid-body tree. It owns its links and
// joint state exclusively; independent mechanisms share nothing and may
// be stepped concurrently with each other.
type Mechanism struct {
	links  []link
	order  []int
	byName map[string]int

	nq, nv int
	q      []float64
	qd     []float64
	qdd    []float64
}

// New validates a topology and builds the mechanism. Invalid topologies
// (cycles, bad parent indices, non-positive masses, a free base below the
// root) fail here; no partially-built mechanism is ever returned.
func New(specs []LinkSpec) (*Mechanism, error) {
	m := &Mechanism{
		links:  make([]link, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	for i, s := range specs {
		if s.Parent != WorldIndex && (s.Parent < 0 || s.Parent >= len(specs)) {
			return nil, errors.Wrapf(ErrMissingParent, "link %q parent %d", s.Name, s.Parent)
		}
		if s.Parent == i {
			return nil, errors.Wrapf(ErrCyclicTopology, "link %q is its own parent", s.Name)
		}
		if s.Inertia.Mass <= 0 || math.IsNaN(s.Inertia.Mass) {
			return nil, errors.Wrapf(ErrZeroMassLink, "link %q mass %v", s.Name, s.Inertia.Mass)
		}
		if s.Joint.Kind() == joint.FreeBase && s.Parent != WorldIndex {
			return nil, errors.Wrapf(ErrFreeBaseNotRoot, "link %q", s.Name)
		}
		if s.Joint.Kind() == 0 {
			return nil, errors.Errorf("mech: link %q has no joint", s.Name)
		}
		if _, ok := m.byName[s.Name]; ok {
			return nil, errors.Errorf("mech: duplicate link name %q", s.Name)
		}
		m.byName[s.Name] = i

		nq, nv := s.Joint.DOF()
		m.links[i] = link{
			name:    s.Name,
			parent:  s.Parent,
			joint:   s.Joint,
			inertia: s.Inertia,
			xt:      s.Offset,
			qi:      m.nq, nq: nq,
			vi: m.nv, nv: nv,
			s:  s.Joint.Subspace(nil),
			bu: make([]spatial.Force, nv),
		}
		m.nq += nq
		m.nv += nv
	}

	order, err := topoOrder(m.links)
	if err != nil {
		return nil, err
	}
	m.order = order

	m.q = make([]float64, m.nq)
	m.qd = make([]float64, m.nv)
	m.qdd = make([]float64, m.nv)
	for i := range m.links {
		ln := &m.links[i]
		ln.joint.Neutral(m.q[ln.qi : ln.qi+ln.nq])
	}
	return m, nil
}

// topoOrder computes a parent-before-child ordering, detecting cycles.
func topoOrder(links []link) ([]int, error) {
	order := make([]int, 0, len(links))
	placed := make([]bool, len(links))
	for {
		progress := false
		for i := range links {
			if placed[i] {
				continue
			}
			p := links[i].parent
			if p == WorldIndex || placed[p] {
				order = append(order, i)
				placed[i] = true
				progress = true
			}
		}
		if len(order) == len(links) {
			return order, nil
		}
		if !progress {
			return nil, errors.Wrapf(ErrCyclicTopology, "%d links unreachable from the world", len(links)-len(order))
		}
	}
}

// NumLinks returns the number of links.
func (m *Mechanism) NumLinks() int { return len(m.links) }

// NQ returns the position-state dimension.
func (m *Mechanism) NQ() int { return m.nq }

// NV returns the velocity-state dimension.
func (m *Mechanism) NV() int { return m.nv }

// StateDim is the full state vector length (positions then velocities).
func (m *Mechanism) StateDim() int { return m.nq + m.nv }

// LinkIndex resolves a link name, returning -1 if absent.
func (m *Mechanism) LinkIndex(name string) int {
	if i, ok := m.byName[name]; ok {
		return i
	}
	return -1
}

// LinkName returns the name of link i.
func (m *Mechanism) LinkName(i int) string { return m.links[i].name }

// Parent returns the parent index of link i (WorldIndex at a root).
func (m *Mechanism) Parent(i int) int { return m.links[i].parent }

// JointKind returns the joint variant of link i's parent joint.
func (m *Mechanism) JointKind(i int) joint.Kind { return m.links[i].joint.Kind() }

// PositionIndex returns the offset of link i's joint position in the
// state vector, and the number of position coordinates.
func (m *Mechanism) PositionIndex(i int) (int, int) {
	return m.links[i].qi, m.links[i].nq
}

// VelocityIndex returns the offset of link i's joint velocity within the
// velocity segment, and the DOF count.
func (m *Mechanism) VelocityIndex(i int) (int, int) {
	return m.links[i].vi, m.links[i].nv
}

// State copies the full state (positions then velocities) into dst,
// growing it if needed, and returns it.
func (m *Mechanism) State(dst []float64) []float64 {
	if cap(dst) < m.StateDim() {
		dst = make([]float64, m.StateDim())
	}
	dst = dst[:m.StateDim()]
	copy(dst[:m.nq], m.q)
	copy(dst[m.nq:], m.qd)
	return dst
}

// SetState loads a full state vector.
func (m *Mechanism) SetState(x []float64) {
	copy(m.q, x[:m.nq])
	copy(m.qd, x[m.nq:m.nq+m.nv])
}

// SetJointPosition sets link i's joint position coordinates.
func (m *Mechanism) SetJointPosition(i int, q ...float64) {
	copy(m.q[m.links[i].qi:m.links[i].qi+m.links[i].nq], q)
}

// SetJointVelocity sets link i's joint velocity coordinates.
func (m *Mechanism) SetJointVelocity(i int, qd ...float64) {
	copy(m.qd[m.links[i].vi:m.links[i].vi+m.links[i].nv], qd)
}

// JointPosition returns a copy of link i's joint position coordinates.
func (m *Mechanism) JointPosition(i int) []float64 {
	ln := &m.links[i]
	out := make([]float64, ln.nq)
	copy(out, m.q[ln.qi:ln.qi+ln.nq])
	return out
}

// JointVelocity returns a copy of link i's joint velocity coordinates.
func (m *Mechanism) JointVelocity(i int) []float64 {
	ln := &m.links[i]
	out := make([]float64, ln.nv)
	copy(out, m.qd[ln.vi:ln.vi+ln.nv])
	return out
}

// Accelerations copies the most recently computed joint accelerations
// into dst and returns it.
func (m *Mechanism) Accelerations(dst []float64) []float64 {
	if cap(dst) < m.nv {
		dst = make([]float64, m.nv)
	}
	dst = dst[:m.nv]
	copy(dst, m.qdd)
	return dst
}

// Derivative writes the state derivative (dq/dt then dqd/dt) for the
// current state and last computed accelerations into dst.
func (m *Mechanism) Derivative(dst []float64) {
	for i := range m.links {
		ln := &m.links[i]
		ln.joint.PositionDerivative(
			dst[ln.qi:ln.qi+ln.nq],
			m.q[ln.qi:ln.qi+ln.nq],
			m.qd[ln.vi:ln.vi+ln.nv],
		)
	}
	copy(dst[m.nq:], m.qdd)
}

// NormalizeState restores per-joint state invariants (unit quaternions)
// on a raw state vector laid out like State().
func (m *Mechanism) NormalizeState(x []float64) {
	for i := range m.links {
		ln := &m.links[i]
		ln.joint.Normalize(x[ln.qi : ln.qi+ln.nq])
	}
}

// LinkTransform returns the world-to-link transform from the last
// kinematics update.
func (m *Mechanism) LinkTransform(i int) spatial.Transform { return m.links[i].x }

// LinkVelocity returns link i's spatial velocity in link coordinates from
// the last kinematics update.
func (m *Mechanism) LinkVelocity(i int) spatial.Motion { return m.links[i].v }

// WorldCoM returns link i's center of mass in world coordinates, valid
// after a kinematics update.
func (m *Mechanism) WorldCoM(i int) r3.Vector {
	ln := &m.links[i]
	return ln.x.Inverse().TransformPoint(ln.inertia.CoM)
}
