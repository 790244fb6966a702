package gekko

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/broadphase"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/object"
)

// TypeRegistry is the slice of the external ECS the core registers its
// component and temporary types with. The ECS runtime itself (entity
// allocation, archetype storage, task-graph execution) is an external
// collaborator; the core only needs to announce its types.
type TypeRegistry interface {
	RegisterComponent(prototype any)
	RegisterTemporary(prototype any)
}

// Solver is the external constraint-solver surface the narrow-phase
// produces into: a shared contact buffer with an atomic insert counter
// and a fixed capacity.
type Solver interface {
	Contacts() *narrowphase.ContactBuffer
}

// ConvexSolver is the optional secondary solver some deployments run
// alongside the primary one; it consumes the same contact stream.
type ConvexSolver interface {
	Solver
}

// CollisionEventTemporary is the optional per-pair event the core can
// emit for the ECS surface to pick up; it lives for one step.
type CollisionEventTemporary struct {
	A, B   object.EntityLocation
	Normal mgl32.Vec3
}

// Context is the per-world collision state Init creates: the shared
// object table, the broad-phase world, and the step parameters the
// task-graph nodes read.
type Context struct {
	Objects     *object.ObjectManager
	World       *broadphase.World
	Dt          float32
	NumSubsteps int
	Gravity     mgl32.Vec3
	Logger      Logger

	solver Solver
	cvx    ConvexSolver
}

// RegisterTypes announces the core's ECS-visible types to the external
// registry: the per-entity transform/response component, the
// solver-facing contact constraint, and the optional per-pair event
// temporary.
func RegisterTypes(reg TypeRegistry, solver Solver) {
	reg.RegisterComponent(object.EntityLocation{})
	reg.RegisterComponent(narrowphase.ContactConstraint{})
	reg.RegisterTemporary(CollisionEventTemporary{})
	if solver != nil && solver.Contacts() == nil {
		panic(fmt.Errorf("gekko: solver registered without a contact buffer"))
	}
}

// Init builds a per-world collision context. maxDynamicObjects sizes
// the broad-phase leaf array; the candidate cap defaults to
// maxDynamicObjects squared because the solver owns configuring a
// tighter one. dt, numSubsteps and gravity are carried for downstream nodes
// (the solver integrates; the core only stores them).
func Init(objects *object.ObjectManager, dt float32, numSubsteps int, gravity mgl32.Vec3, maxDynamicObjects int, solver Solver, cvx ConvexSolver, logger Logger) *Context {
	if logger == nil {
		logger = NewNopLogger()
	}
	if solver == nil || solver.Contacts() == nil {
		panic(fmt.Errorf("gekko: Init requires a solver with a contact buffer"))
	}
	world := broadphase.NewWorld(objects, broadphase.Config{
		MaxDynamicObjects: maxDynamicObjects,
		MaxCandidates:     maxDynamicObjects * maxDynamicObjects,
	})
	logger.Infof("collision world %s: %d objects, %d dynamic slots", world.WorldID, objects.Len(), maxDynamicObjects)
	return &Context{
		Objects:     objects,
		World:       world,
		Dt:          dt,
		NumSubsteps: numSubsteps,
		Gravity:     gravity,
		Logger:      logger,
		solver:      solver,
		cvx:         cvx,
	}
}

// RegisterEntity reserves a broad-phase leaf for a newly created
// entity and installs its initial transform. numDofs is forwarded to
// the solver's own bookkeeping by the caller; the core only validates
// it. Registration is single-threaded.
func RegisterEntity(ctx *Context, loc object.EntityLocation, objectID object.ObjectID, numDofs int, solver Solver) broadphase.LeafID {
	if numDofs < 0 {
		panic(fmt.Errorf("gekko: entity registered with negative dof count %d", numDofs))
	}
	loc.Object = objectID
	id := ctx.World.ReserveLeaf()
	ctx.World.SetEntity(id, loc)
	return id
}

// SolverContacts exposes the context's contact buffer for task-graph
// wiring.
func (ctx *Context) SolverContacts() *narrowphase.ContactBuffer {
	return ctx.solver.Contacts()
}
