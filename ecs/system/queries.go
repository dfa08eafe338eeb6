package system

import (
	"github.com/jakecoffman/cp"

	"github.com/veldrane/helix/ecs"
)

// RayHit reports the entity a spatial query struck. Point and Normal are in
// world units; Alpha is the normalized distance along the segment.
type RayHit struct {
	Entity ecs.Entity
	Point  cp.Vector
	Normal cp.Vector
	Alpha  float64
}

// Raycast returns the first shape hit along the segment, skipping shapes the
// filter rejects. The library owns the actual intersection math.
func (ps *PhysicsSystem) Raycast(start, end cp.Vector, filter cp.ShapeFilter) (RayHit, bool) {
	return ps.SweepCircle(start, end, 0, filter)
}

// SweepCircle casts a circle of the given radius along the segment; a zero
// radius degenerates to a plain raycast. Chipmunk's segment query takes the
// radius directly, so the sweep is a single library call.
func (ps *PhysicsSystem) SweepCircle(start, end cp.Vector, radius float64, filter cp.ShapeFilter) (RayHit, bool) {
	if ps == nil || ps.space == nil {
		return RayHit{}, false
	}
	info := ps.space.SegmentQueryFirst(start, end, radius, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	owner, ok := shapeOwner(info.Shape)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{Entity: owner, Point: info.Point, Normal: info.Normal, Alpha: info.Alpha}, true
}

// RaycastAll marches repeated first-hit queries along the segment and
// returns the hits nearest first. The march nudges the start point just past
// each hit, so back-to-back shapes closer than the nudge merge into one hit.
func (ps *PhysicsSystem) RaycastAll(start, end cp.Vector, radius float64, filter cp.ShapeFilter) []RayHit {
	if ps == nil || ps.space == nil {
		return nil
	}

	if end.Sub(start).Length() == 0 {
		return nil
	}

	var hits []RayHit
	cursor := start
	remaining := 1.0
	for i := 0; i < 64; i++ {
		info := ps.space.SegmentQueryFirst(cursor, end, radius, filter)
		if info.Shape == nil {
			break
		}
		owner, ok := shapeOwner(info.Shape)
		// Restarting just past a hit can re-report the same shape from
		// inside it; collapse consecutive hits on one entity.
		if ok && (len(hits) == 0 || hits[len(hits)-1].Entity != owner) {
			consumed := 1.0 - remaining
			hits = append(hits, RayHit{
				Entity: owner,
				Point:  info.Point,
				Normal: info.Normal,
				Alpha:  consumed + info.Alpha*remaining,
			})
		}
		segLen := end.Sub(cursor).Length()
		if segLen == 0 {
			break
		}
		step := info.Alpha + 1e-4/segLen
		if step >= 1 {
			break
		}
		cursor = cursor.Add(end.Sub(cursor).Mult(step))
		remaining *= 1 - step
	}
	return hits
}

// Nearest returns the entity whose shape is closest to the point within
// maxDistance.
func (ps *PhysicsSystem) Nearest(point cp.Vector, maxDistance float64, filter cp.ShapeFilter) (RayHit, bool) {
	if ps == nil || ps.space == nil {
		return RayHit{}, false
	}
	info := ps.space.PointQueryNearest(point, maxDistance, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	owner, ok := shapeOwner(info.Shape)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{Entity: owner, Point: info.Point, Normal: info.Gradient, Alpha: info.Distance}, true
}
