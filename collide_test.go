package gekko

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/object"
)

type recordingRegistry struct {
	components  []any
	temporaries []any
}

func (r *recordingRegistry) RegisterComponent(p any) { r.components = append(r.components, p) }
func (r *recordingRegistry) RegisterTemporary(p any) { r.temporaries = append(r.temporaries, p) }

type testSolver struct {
	buf *narrowphase.ContactBuffer
}

func (s *testSolver) Contacts() *narrowphase.ContactBuffer { return s.buf }

func sphereObjects(radius float32) *object.ObjectManager {
	box := geom.AABB{Min: mgl32.Vec3{-radius, -radius, -radius}, Max: mgl32.Vec3{radius, radius, radius}}
	return object.NewObjectManager([]object.ObjectEntry{
		{
			Primitives: []object.Primitive{object.NewSphere(radius)},
			LocalAABBs: []geom.AABB{box},
			AABB:       box,
			Mass:       1,
		},
	})
}

func TestRegisterTypesAnnouncesCoreTypes(t *testing.T) {
	reg := &recordingRegistry{}
	solver := &testSolver{buf: narrowphase.NewContactBuffer(narrowphase.Config{MaxContacts: 8})}

	RegisterTypes(reg, solver)

	require.Len(t, reg.components, 2)
	require.Len(t, reg.temporaries, 1)
	require.IsType(t, CollisionEventTemporary{}, reg.temporaries[0])
}

func TestInitAndRegisterEntity(t *testing.T) {
	objects := sphereObjects(0.5)
	solver := &testSolver{buf: narrowphase.NewContactBuffer(narrowphase.Config{MaxContacts: 8})}

	ctx := Init(objects, 1.0/60, 4, mgl32.Vec3{0, 0, -9.81}, 16, solver, nil, nil)
	require.NotNil(t, ctx.World)
	require.Same(t, solver.buf, ctx.SolverContacts())

	loc := object.EntityLocation{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}, Response: object.Dynamic}
	a := RegisterEntity(ctx, loc, 0, 6, solver)
	b := RegisterEntity(ctx, loc, 0, 6, solver)
	require.NotEqual(t, a, b)
}

func TestInitRejectsMissingSolver(t *testing.T) {
	objects := sphereObjects(0.5)
	require.Panics(t, func() {
		Init(objects, 1.0/60, 4, mgl32.Vec3{}, 16, nil, nil, nil)
	})
}
