// Package scene simulates a host application for the octree: a set of boxes drifting through a bounded world,
// updated once per frame and queried with picking rays.
package scene

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"go.viam.com/octree/octree"
	"go.viam.com/octree/spatialmath"
)

// FrameDelta is the simulated time between two frames of Run, in seconds.
const FrameDelta = 1. / 60.

type object struct {
	bb       spatialmath.AABB
	velocity r3.Vector
}

// Hit is an object hit by a picking ray.
type Hit struct {
	ID       uuid.UUID
	Point    r3.Vector
	Distance float64
}

// Summary reports what a scene has done so far.
type Summary struct {
	Stats     octree.Stats
	Objects   int
	Frames    int
	Picks     int
	Hits      int
	LastFrame time.Duration
	Elapsed   time.Duration
}

// Scene owns a set of moving objects and the octree indexing them.
type Scene struct {
	logger  golog.Logger
	clock   clock.Clock
	cfg     Config
	rng     *rand.Rand
	world   spatialmath.AABB
	tree    *octree.Octree[uuid.UUID]
	objects map[uuid.UUID]*object
	order   []uuid.UUID

	started   time.Time
	lastFrame time.Duration
	frames    int
	picks     int
	hits      int
}

// New creates a scene and populates it with cfg.Objects randomly placed objects.
func New(cfg Config, clk clock.Clock, logger golog.Logger) (*Scene, error) {
	if err := cfg.Validate("scene"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	tree, err := octree.NewFromConfig[uuid.UUID](&cfg.Octree, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scene index")
	}

	s := &Scene{
		logger:  logger,
		clock:   clk,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec
		world:   tree.WorldBox(),
		tree:    tree,
		objects: make(map[uuid.UUID]*object, cfg.Objects),
		started: clk.Now(),
	}
	for i := 0; i < cfg.Objects; i++ {
		if _, err := s.Spawn(s.randomBox(), s.randomVelocity()); err != nil {
			return nil, err
		}
	}
	logger.Debugw("scene created", "objects", cfg.Objects, "world", s.world)
	return s, nil
}

// Tree returns the index backing the scene. It must not be mutated directly.
func (s *Scene) Tree() *octree.Octree[uuid.UUID] {
	return s.tree
}

// Spawn adds an object with the given box and velocity and returns its id.
func (s *Scene) Spawn(bb spatialmath.AABB, velocity r3.Vector) (uuid.UUID, error) {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to generate object id")
	}
	s.objects[id] = &object{bb: bb, velocity: velocity}
	s.order = append(s.order, id)
	s.tree.Update(id, bb)
	return id, nil
}

// Despawn removes the object id. It returns false if there is no such object.
func (s *Scene) Despawn(id uuid.UUID) bool {
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)
	s.order = lo.Without(s.order, id)
	if _, ok := s.tree.Remove(id); !ok {
		s.logger.Warnw("despawned object was not indexed", "id", id)
	}
	return true
}

// Box returns the current box of the object id.
func (s *Scene) Box(id uuid.UUID) (spatialmath.AABB, bool) {
	obj, ok := s.objects[id]
	if !ok {
		return spatialmath.AABB{}, false
	}
	return obj.bb, true
}

// IDs returns the ids of all objects in spawn order.
func (s *Scene) IDs() []uuid.UUID {
	return slices.Clone(s.order)
}

// Step advances every object by dt seconds, bouncing it off the world bounds, and updates the index.
func (s *Scene) Step(ctx context.Context, dt float64) error {
	_, span := trace.StartSpan(ctx, "scene::Step")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := s.clock.Now()
	for _, id := range s.order {
		obj := s.objects[id]
		obj.bb = obj.bb.Translate(obj.velocity.Mul(dt))
		obj.velocity = bounce(obj.bb, obj.velocity, s.world)
		s.tree.Update(id, obj.bb)
	}
	s.lastFrame = s.clock.Since(start)
	s.frames++
	return nil
}

// bounce flips the velocity components that carry bb further out of world.
func bounce(bb spatialmath.AABB, v r3.Vector, world spatialmath.AABB) r3.Vector {
	if (bb.Min.X < world.Min.X && v.X < 0) || (bb.Max.X > world.Max.X && v.X > 0) {
		v.X = -v.X
	}
	if (bb.Min.Y < world.Min.Y && v.Y < 0) || (bb.Max.Y > world.Max.Y && v.Y > 0) {
		v.Y = -v.Y
	}
	if (bb.Min.Z < world.Min.Z && v.Z < 0) || (bb.Max.Z > world.Max.Z && v.Z > 0) {
		v.Z = -v.Z
	}
	return v
}

// Pick returns every object hit by ray, nearest first.
func (s *Scene) Pick(ctx context.Context, ray spatialmath.Ray) []Hit {
	_, span := trace.StartSpan(ctx, "scene::Pick")
	defer span.End()

	var hits []Hit
	for hit := range s.tree.RayIntersections(ray).Seq() {
		hits = append(hits, Hit{
			ID:       hit.Item.ID,
			Point:    hit.Point,
			Distance: hit.Point.Distance(ray.Origin),
		})
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	s.picks++
	s.hits += len(hits)
	return hits
}

// Run steps the scene for the configured number of frames, casting the configured number of random picking
// rays after each frame.
func (s *Scene) Run(ctx context.Context) (Summary, error) {
	for frame := 0; frame < s.cfg.Frames; frame++ {
		if err := s.Step(ctx, FrameDelta); err != nil {
			return s.Summary(), err
		}
		for i := 0; i < s.cfg.Rays; i++ {
			s.Pick(ctx, s.randomRay())
		}
		if frame%60 == 0 {
			s.logger.Debugw("frame", "frame", frame, "duration", s.lastFrame)
		}
	}
	return s.Summary(), nil
}

// Summary reports the current index shape and frame counters.
func (s *Scene) Summary() Summary {
	return Summary{
		Stats:     s.tree.Stats(),
		Objects:   len(s.objects),
		Frames:    s.frames,
		Picks:     s.picks,
		Hits:      s.hits,
		LastFrame: s.lastFrame,
		Elapsed:   s.clock.Since(s.started),
	}
}

func (s *Scene) randomPoint(bb spatialmath.AABB) r3.Vector {
	d := bb.Dims()
	return r3.Vector{
		X: bb.Min.X + s.rng.Float64()*d.X,
		Y: bb.Min.Y + s.rng.Float64()*d.Y,
		Z: bb.Min.Z + s.rng.Float64()*d.Z,
	}
}

func (s *Scene) randomBox() spatialmath.AABB {
	dims := r3.Vector{
		X: s.rng.Float64() * s.cfg.Extent,
		Y: s.rng.Float64() * s.cfg.Extent,
		Z: s.rng.Float64() * s.cfg.Extent,
	}
	return spatialmath.NewAABBFromCenter(s.randomPoint(s.world), dims)
}

func (s *Scene) randomDirection() r3.Vector {
	for {
		v := r3.Vector{X: s.rng.Float64()*2 - 1, Y: s.rng.Float64()*2 - 1, Z: s.rng.Float64()*2 - 1}
		if n := v.Norm(); n > 1e-6 && n <= 1 {
			return v.Normalize()
		}
	}
}

func (s *Scene) randomVelocity() r3.Vector {
	return s.randomDirection().Mul(s.rng.Float64() * s.cfg.MaxSpeed)
}

func (s *Scene) randomRay() spatialmath.Ray {
	return spatialmath.Ray{Origin: s.randomPoint(s.world), Direction: s.randomDirection()}
}
