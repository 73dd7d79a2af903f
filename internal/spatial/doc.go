// Package spatial implements 6-dimensional spatial vector algebra for
// rigid-body dynamics: motion vectors (twists), force vectors (wrenches),
// Plücker coordinate transforms and spatial inertias.
//
// Conventions follow Featherstone's "Rigid Body Dynamics Algorithms":
//
//   - a [Motion] or [Force] pairs an angular and a linear 3-vector,
//     expressed in a specific coordinate frame
//   - a [Transform] carries vectors from a parent frame to a child frame;
//     its rotation is the coordinate rotation E (the transpose of the
//     child-to-parent rotation matrix)
//   - [Inertia] is the rigid-body inertia of one link (mass, center of
//     mass, rotational inertia about the center of mass); [ABInertia] is
//     the dense articulated-body form referred to the frame origin
//
// All types are plain values and every operation is closed-form and
// allocation-free, so the algebra can run inside a per-step recursion
// without touching the garbage collector.
package spatial
