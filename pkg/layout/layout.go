// Package layout computes node positions with a force-directed spring model.
//
// The model is Eades' spring embedder with Barnes-Hut repulsion, as provided
// by gonum. Edge weights scale the attraction between adjacent nodes, so
// heavier links pull their endpoints closer together.
//
// Positions are returned in layout space; callers scale them to a canvas.
// A fresh layout starts from seeded random coordinates. When cached positions
// are supplied they are used as the starting point instead, and with
// [Options.Pin] set they are kept fixed so that only new nodes move.
package layout

import (
	"math"
	"math/rand/v2"

	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/graph"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Defaults for [Options].
const (
	DefaultIterations = 200
	DefaultRepulsion  = 1.0
	DefaultRate       = 0.05
	DefaultTheta      = 0.2

	// minSeparation is how far a free node is moved off a coordinate that
	// another node already occupies.
	minSeparation = 0.1
)

// Options controls the spring model.
type Options struct {
	Seed       uint64  // seed for initial placement of uncached nodes
	Iterations int     // maximum number of updates
	Repulsion  float64 // global repulsion strength
	Rate       float64 // gradient descent step
	Theta      float64 // Barnes-Hut approximation threshold
	Pin        bool    // keep cached nodes at their cached position
}

// DefaultOptions returns the default model parameters with seed 1.
func DefaultOptions() Options {
	return Options{
		Seed:       1,
		Iterations: DefaultIterations,
		Repulsion:  DefaultRepulsion,
		Rate:       DefaultRate,
		Theta:      DefaultTheta,
	}
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Repulsion == 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.Rate == 0 {
		o.Rate = DefaultRate
	}
	if o.Theta == 0 {
		o.Theta = DefaultTheta
	}
	return o
}

// Compute lays out doc. seeds may be nil; entries for nodes that are not in
// doc are ignored. The result has exactly one entry per document node.
func Compute(doc *topology.Document, seeds cache.Positions, opts Options) cache.Positions {
	out := make(cache.Positions, doc.NodeCount())
	if doc.NodeCount() == 0 {
		return out
	}
	opts = opts.withDefaults()
	g := graph.FromDocument(doc)
	names := g.Names()

	var cached int
	for _, name := range names {
		if _, ok := seeds[name]; ok {
			cached++
		}
	}

	var coords []r2.Vec
	if cached == 0 {
		coords = fresh(g, opts)
	} else {
		start, pinned := seed(names, seeds, opts)
		coords = relax(g, start, pinned, opts)
	}

	for id, name := range names {
		out[name] = cache.Position{X: coords[id].X, Y: coords[id].Y}
	}
	return out
}

// fresh runs gonum's Eades layout from random coordinates.
func fresh(g *graph.Undirected, opts Options) []r2.Vec {
	eades := &gonumlayout.EadesR2{
		Updates:   opts.Iterations,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     opts.Theta,
		Src:       rand.NewPCG(opts.Seed, opts.Seed),
	}
	o := gonumlayout.NewOptimizerR2(g, eades.Update)
	for o.Update() {
	}

	coords := make([]r2.Vec, len(g.Names()))
	for id := range coords {
		coords[id] = o.Coord2(int64(id))
	}
	return coords
}

// seed places cached nodes at their cached coordinates and the remaining nodes
// uniformly at random inside the bounding box of the cached ones. Free nodes
// never share a coordinate with another node.
func seed(names []string, seeds cache.Positions, opts Options) ([]r2.Vec, []bool) {
	start := make([]r2.Vec, len(names))
	pinned := make([]bool, len(names))

	box := r2.Box{Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)}, Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}}
	for id, name := range names {
		p, ok := seeds[name]
		if !ok {
			continue
		}
		start[id] = r2.Vec{X: p.X, Y: p.Y}
		pinned[id] = opts.Pin
		box.Min = r2.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y)}
		box.Max = r2.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y)}
	}
	size := r2.Sub(box.Max, box.Min)
	size.X = math.Max(size.X, 1)
	size.Y = math.Max(size.Y, 1)

	rnd := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	for id, name := range names {
		if _, ok := seeds[name]; ok {
			continue
		}
		start[id] = r2.Vec{
			X: box.Min.X + rnd.Float64()*size.X,
			Y: box.Min.Y + rnd.Float64()*size.Y,
		}
	}
	spread(start, pinned, rnd)
	return start, pinned
}

// spread moves nodes off coordinates already taken by another node. A pinned
// node keeps its place and the free one moves; two pinned nodes stay
// together.
func spread(start []r2.Vec, pinned []bool, rnd *rand.Rand) {
	taken := make(map[r2.Vec]int, len(start))
	for i, p := range start {
		j, ok := taken[p]
		if !ok {
			taken[p] = i
			continue
		}
		k := i
		if pinned[i] {
			if pinned[j] {
				continue
			}
			k = j
			taken[p] = i
		}
		for {
			a := rnd.Float64() * 2 * math.Pi
			q := r2.Add(p, r2.Vec{X: minSeparation * math.Cos(a), Y: minSeparation * math.Sin(a)})
			if _, ok := taken[q]; !ok {
				start[k] = q
				taken[q] = k
				break
			}
		}
	}
}

type particle struct {
	pos r2.Vec
}

func (p particle) Coord2() r2.Vec { return p.pos }
func (p particle) Mass() float64  { return 1 }

// relax runs the same update rule as gonum's EadesR2 from the given start
// coordinates, skipping pinned nodes. Zero-length springs exert no force.
// It stops early when no free node feels a force or when the model diverges.
func relax(g *graph.Undirected, start []r2.Vec, pinned []bool, opts Options) []r2.Vec {
	particles := make([]barneshut.Particle2, len(start))
	for i, p := range start {
		particles[i] = particle{pos: p}
	}
	forces := make([]r2.Vec, len(particles))
	edges := springsOf(g)

	for range opts.Iterations {
		plane, err := barneshut.NewPlane(particles)
		if err != nil {
			break
		}
		for i, p := range particles {
			forces[i] = r2.Scale(-opts.Repulsion, plane.ForceOn(p, opts.Theta, barneshut.Gravity2))
		}
		for _, e := range edges {
			v := r2.Sub(particles[e.v].Coord2(), particles[e.u].Coord2())
			d := math.Hypot(v.X, v.Y)
			if d == 0 {
				continue
			}
			f := r2.Scale(e.w*math.Log(d), v)
			forces[e.u] = r2.Add(forces[e.u], f)
			forces[e.v] = r2.Sub(forces[e.v], f)
		}

		var updated bool
		for i, f := range forces {
			if !finite(f) {
				return positions(particles)
			}
			if !pinned[i] && math.Hypot(f.X, f.Y) > 1e-12 {
				updated = true
			}
		}
		if !updated {
			break
		}
		for i, f := range forces {
			if pinned[i] {
				continue
			}
			particles[i] = particle{pos: r2.Add(particles[i].Coord2(), r2.Scale(opts.Rate, f))}
		}
	}
	return positions(particles)
}

type spring struct {
	u, v int64
	w    float64
}

func springsOf(g *graph.Undirected) []spring {
	var out []spring
	it := g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		out = append(out, spring{u: e.From().ID(), v: e.To().ID(), w: e.Weight()})
	}
	return out
}

func positions(particles []barneshut.Particle2) []r2.Vec {
	out := make([]r2.Vec, len(particles))
	for i, p := range particles {
		out[i] = p.Coord2()
	}
	return out
}

func finite(v r2.Vec) bool {
	return !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsNaN(v.X) && !math.IsNaN(v.Y)
}
