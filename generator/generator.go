package generator

import (
	"fmt"
	"math/rand"

	"github.com/riskgraph/faulttree/ccf"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
	"github.com/riskgraph/faulttree/tree"
)

// Generate grows a new fault tree of the complexity described by f, rooted
// at a gate named rootName, owned by a FaultTree named ftName. f.Calculate
// must have already run. The returned tree is fully populated (Populate has
// already been called) and ready to serialize.
//
// Growth proceeds breadth-first from the top gate: a queue holds gates
// still short of their sampled argument count; each dequeued gate is filled
// one argument at a time, each slot either a fresh basic event/gate or one
// drawn from a pre-built common pool, until full, then its exhausted-queue
// correction runs before moving to the next gate in the queue.
func Generate(seed int64, ftName, rootName string, f *Factors) (*tree.FaultTree, error) {
	rng := rand.New(rand.NewSource(seed))

	name, err := ident.Parse(ftName)
	if err != nil {
		return nil, fmt.Errorf("generator: fault tree name: %w", err)
	}
	root, err := ident.Parse(rootName)
	if err != nil {
		return nil, fmt.Errorf("generator: root gate name: %w", err)
	}

	ft := tree.New(name)
	g := &gen{rng: rng, f: f, ft: ft}

	top := ft.ConstructGate(root, f.randomNonDegenerateOperator(rng))
	g.topGate = top

	numGate := f.numGate()
	numCommonBasics := f.numCommonBasics(numGate)
	numCommonGates := f.numCommonGates(numGate)

	g.commonBasics = make([]node.BasicHandle, numCommonBasics)
	for i := range g.commonBasics {
		g.commonBasics[i] = g.constructBasicEvent()
	}
	g.commonGates = make([]node.GateHandle, numCommonGates)
	for i := range g.commonGates {
		g.commonGates[i] = g.constructGate()
	}

	queue := []node.GateHandle{top}
	for len(queue) > 0 {
		var h node.GateHandle
		h, queue = queue[0], queue[1:]
		queue = g.initGate(h, queue)
	}

	g.distributeHouseEvents()
	if err := g.generateCCFGroups(); err != nil {
		return nil, err
	}

	if err := ft.Populate(); err != nil {
		return nil, fmt.Errorf("generator: generated tree failed validation: %w", err)
	}
	return ft, nil
}

// gen carries the mutable state of a single Generate call: the RNG, the
// factor set, the tree under construction, and the common-node pools.
type gen struct {
	rng          *rand.Rand
	f            *Factors
	ft           *tree.FaultTree
	topGate      node.GateHandle
	commonBasics []node.BasicHandle
	commonGates  []node.GateHandle
	numBasic     int
	numGateCount int
}

func (g *gen) constructBasicEvent() node.BasicHandle {
	g.numBasic++
	name := ident.MustParse(fmt.Sprintf("B%d", g.numBasic))
	prob := g.f.MinProb + g.rng.Float64()*(g.f.MaxProb-g.f.MinProb)
	return g.ft.ConstructBasicEvent(name, prob)
}

func (g *gen) constructGate() node.GateHandle {
	g.numGateCount++
	name := ident.MustParse(fmt.Sprintf("G%d", g.numGateCount))
	return g.ft.ConstructGate(name, g.f.randomOperator(g.rng))
}

func (g *gen) constructHouseEvent() node.HouseHandle {
	name := ident.MustParse(fmt.Sprintf("H%d", len(g.ft.HouseEvents)+1))
	return g.ft.ConstructHouseEvent(name, g.rng.Intn(2) == 0)
}

// initGate fills gate h with a sampled number of arguments, drawing each
// from a fresh construction or a common pool, then appends any newly
// created non-orphan gates to the breadth-first queue and returns it.
func (g *gen) initGate(h node.GateHandle, queue []node.GateHandle) []node.GateHandle {
	target := g.ft.GateAt(h)
	numArgs := g.f.numArgsFor(g.rng, target)

	var ancestors map[node.GateHandle]bool
	maxTries := len(g.commonGates)
	numTrials := 0

	for target.NumArguments() < numArgs {
		sPercent := g.rng.Float64()
		sCommon := g.rng.Float64()

		if g.numBasic == g.f.NumBasic {
			sCommon = 0 // basic-event quota already met: only reuse
		}

		if sPercent < g.f.percentGate {
			if sCommon < g.f.CommonG && numTrials < maxTries {
				if ancestors == nil {
					ancestors = gate.Ancestors(g.ft.Gates, h)
				}
				var picked node.GateHandle
				found := false
				for _, cand := range candidatesByParentCount(g.commonGates, func(gh node.GateHandle) int {
					return g.ft.GateAt(gh).NumParents()
				}, g.rng) {
					if numTrials >= maxTries {
						break
					}
					numTrials++
					if cand == h || target.HasArgumentGate(cand) {
						continue
					}
					candGate := g.ft.GateAt(cand)
					if candGate.NumGateArguments() == 0 || !ancestors[cand] {
						if candGate.IsOrphan() {
							queue = append(queue, cand)
						}
						picked = cand
						found = true
						break
					}
				}
				if found {
					g.ft.BindArgument(h, gate.GateArg(picked, false))
					continue
				}
			}
			newGate := g.constructGate()
			g.ft.BindArgument(h, gate.GateArg(newGate, false))
			queue = append(queue, newGate)
		} else {
			b := g.chooseBasicEvent(sCommon)
			if _, dup := g.ft.Basic(b).Parents[h]; dup {
				continue // shared basic event already an argument of h: redraw the slot
			}
			g.ft.BindArgument(h, gate.BasicArg(b, false))
		}
	}

	return g.correctForExhaustion(queue)
}

// chooseBasicEvent picks a basic event for the current argument slot: a
// shared one from the common pool (preferring an orphan, then a
// single-parent member, then any member) when sCommon falls under
// CommonB, otherwise a freshly constructed one.
func (g *gen) chooseBasicEvent(sCommon float64) node.BasicHandle {
	if sCommon < g.f.CommonB && len(g.commonBasics) > 0 {
		ordered := candidatesByParentCount(g.commonBasics, func(bh node.BasicHandle) int {
			return g.ft.Basic(bh).NumParents()
		}, g.rng)
		return ordered[0]
	}
	return g.constructBasicEvent()
}

// correctForExhaustion handles the corner case where the breadth-first
// queue has run dry but the basic-event quota isn't met yet: it grafts one
// more gate onto a random existing non-NOT/non-XOR, non-common gate so
// growth can continue.
func (g *gen) correctForExhaustion(queue []node.GateHandle) []node.GateHandle {
	if len(queue) > 0 || g.numBasic >= g.f.NumBasic {
		return queue
	}
	isCommon := make(map[node.GateHandle]bool, len(g.commonGates))
	for _, ch := range g.commonGates {
		isCommon[ch] = true
	}
	var target node.GateHandle
	for {
		target = node.GateHandle(g.rng.Intn(len(g.ft.Gates)))
		op := g.ft.GateAt(target).Operator
		if op != gate.NOT && op != gate.XOR && !isCommon[target] {
			break
		}
	}
	newGate := g.constructGate()
	g.ft.BindArgument(target, gate.GateArg(newGate, false))
	return append(queue, newGate)
}

// distributeHouseEvents scatters NumHouse house events onto randomly
// chosen gates, skipping the top gate and any NOT/XOR gate (both have a
// fixed arity that a house-event argument would violate).
func (g *gen) distributeHouseEvents() {
	for len(g.ft.HouseEvents) < g.f.NumHouse {
		target := node.GateHandle(g.rng.Intn(len(g.ft.Gates)))
		tg := g.ft.GateAt(target)
		if target == g.topGate || tg.Operator == gate.XOR || tg.Operator == gate.NOT {
			continue
		}
		g.ft.BindArgument(target, gate.HouseArg(g.constructHouseEvent(), false))
	}
}

// generateCCFGroups partitions a shuffled copy of every basic event into
// NumCCF consecutive groups of random size in [2, 2*NumArgs-2], stopping
// early (and leaving the remainder ungrouped) if the basic-event pool runs
// out before NumCCF groups are formed — exactly the original generator's
// stopping rule.
func (g *gen) generateCCFGroups() error {
	if g.f.NumCCF == 0 {
		return nil
	}
	members := make([]node.BasicHandle, len(g.ft.BasicEvents))
	for i := range g.ft.BasicEvents {
		members[i] = node.BasicHandle(i)
	}
	g.rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })

	maxGroupSize := int(2*g.f.NumArgs) - 2
	if maxGroupSize < 2 {
		maxGroupSize = 2
	}

	first := 0
	for i := 0; i < g.f.NumCCF; i++ {
		size := 2 + g.rng.Intn(maxGroupSize-2+1)
		last := first + size
		if last > len(members) {
			break
		}
		if err := g.constructCCFGroup(members[first:last], i+1); err != nil {
			return err
		}
		first = last
	}
	return nil
}

func (g *gen) constructCCFGroup(members []node.BasicHandle, index int) error {
	name := ident.MustParse(fmt.Sprintf("CCF%d", index))
	prob := g.f.MinProb + g.rng.Float64()*(g.f.MaxProb-g.f.MinProb)
	levels := 2 + g.rng.Intn(len(members)-2+1)
	factors := make([]float64, levels-1)
	for i := range factors {
		factors[i] = 0.1 + g.rng.Float64()*0.9
	}
	grp := g.ft.ConstructCCFGroup(name, ccf.MGL, prob, factors, append([]node.BasicHandle(nil), members...))
	return grp.Validate()
}

// candidatesByParentCount orders xs by the preference the generator's
// common-pool selection shares between gate and basic-event reuse:
// parentless candidates first, then single-parent candidates, then the
// rest — each tier independently shuffled — so construction prefers
// spreading reuse across the pool before piling parents onto one node.
func candidatesByParentCount[T any](xs []T, numParents func(T) int, rng *rand.Rand) []T {
	var orphans, single, multi []T
	for _, x := range xs {
		switch n := numParents(x); {
		case n == 0:
			orphans = append(orphans, x)
		case n == 1:
			single = append(single, x)
		default:
			multi = append(multi, x)
		}
	}
	shuffle(orphans, rng)
	shuffle(single, rng)
	shuffle(multi, rng)
	out := make([]T, 0, len(xs))
	out = append(out, orphans...)
	out = append(out, single...)
	out = append(out, multi...)
	return out
}

func shuffle[T any](xs []T, rng *rand.Rand) {
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}
