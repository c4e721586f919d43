package system

import (
	"github.com/gravsim/grav/internal/core/ecs"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/world"
)

// Stage names of the tick graph.
const (
	StageClearCollisions  coresys.Stage = "clear-collisions"
	StageClearForces      coresys.Stage = "clear-forces"
	StageGravity          coresys.Stage = "gravity"
	StageElectrostatics   coresys.Stage = "electrostatics"
	StageForceAggregation coresys.Stage = "force-aggregation"
	StageIntegrate        coresys.Stage = "integrate"
	StageOrientation      coresys.Stage = "orientation"
	StageCollisionDetect  coresys.Stage = "collision-detect"
	StageCollisionResolve coresys.Stage = "collision-resolve"
	StageLifetimeAdvance  coresys.Stage = "lifetime-advance"
	StageSplit            coresys.Stage = "split"
	StageOutput           coresys.Stage = "output"
)

// All returns every stage system bound to ws, in registration order.
func All(ws *world.State) []coresys.System[world.SimContext] {
	return []coresys.System[world.SimContext]{
		NewClearCollisionsSystem(ws),
		NewClearForcesSystem(ws),
		NewGravitySystem(ws),
		NewElectrostaticsSystem(ws),
		NewForceAggregationSystem(ws),
		NewIntegrateSystem(ws),
		NewOrientationSystem(ws),
		NewCollisionDetectSystem(ws),
		NewCollisionResolveSystem(ws),
		NewLifetimeSystem(ws),
		NewSplitSystem(ws),
		NewOutputSystem(ws),
	}
}

func after(stages ...coresys.Stage) []coresys.Stage { return stages }

// sphereRadius is the radius of id's sphere shape, 1 when it has none.
func sphereRadius(ws *world.State, id ecs.EntityID) float64 {
	if ph, ok := ws.Physicality.Get(id); ok {
		if r, ok := ph.Shape.SphereRadius(); ok {
			return r
		}
	}
	return 1
}
