package tree

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskgraph/faulttree/ccf"
	"github.com/riskgraph/faulttree/dfs"
	"github.com/riskgraph/faulttree/diagnostics"
	"github.com/riskgraph/faulttree/event"
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
)

// Sentinel errors for FaultTree construction and population. Callers
// should branch with errors.Is, never string comparison.
var (
	// ErrRedefinition indicates a name already claimed in some scope
	// (basic event, house event, gate, or CCF group), case-insensitively.
	ErrRedefinition = errors.New("tree: redefinition of an existing name")

	// ErrUnresolvedReference indicates a gate argument name that did not
	// resolve to any known entity, surfaced only in strict mode.
	ErrUnresolvedReference = errors.New("tree: unresolved reference in strict mode")

	// ErrRepeatedArgument indicates the same resolved entity appearing
	// more than once in a single gate's argument list.
	ErrRepeatedArgument = errors.New("tree: repeated argument in gate")

	// ErrSelfReference indicates a gate listing itself as an argument.
	ErrSelfReference = errors.New("tree: gate references itself")

	// ErrAlreadyPopulated indicates a second call to Populate on the same
	// FaultTree; construction is one-shot, with no incremental editing once
	// a tree has been validated.
	ErrAlreadyPopulated = errors.New("tree: already populated")

	// ErrUnknownCCFMember indicates a CCF group member name that does not
	// resolve to a known basic event at AddCCFGroup time.
	ErrUnknownCCFMember = errors.New("tree: unknown CCF member")

	// ErrUnknownHandle indicates a handle that does not index any entity
	// currently owned by this FaultTree.
	ErrUnknownHandle = errors.New("tree: handle out of range")

	// ErrNoTopGate indicates zero orphan gates after resolution — every
	// gate has at least one parent, which typically means a cycle
	// swallows the would-be root.
	ErrNoTopGate = errors.New("tree: no top gate")

	// ErrMultipleTopGates indicates more than one orphan gate when
	// MultiTop was not requested.
	ErrMultipleTopGates = errors.New("tree: multiple top gates")
)

func wrapf(method string, err error) error {
	return fmt.Errorf("tree: %s: %w", method, err)
}

// scopeKind tags which catalog a scope entry's handle indexes.
type scopeKind int

const (
	scopeBasic scopeKind = iota
	scopeHouse
	scopeGate
	scopeCCF
)

type scopeEntry struct {
	kind   scopeKind
	basic  node.BasicHandle
	house  node.HouseHandle
	gate   node.GateHandle
	ccfIdx int
}

// pendingArg is a gate argument as written (a name plus an optional
// complement marker) before Populate resolves it to a typed ArgRef. Storing
// the raw string is what makes forward references legal: a gate can name
// an argument that is declared later in the same input.
type pendingArg struct {
	name       string
	complement bool
}

// GateArgSpec is the caller-facing form of a not-yet-resolved gate
// argument, used by AddGate.
type GateArgSpec struct {
	Name       string
	Complement bool
}

// FaultTree is the root container and sole owner of every gate, basic
// event, house event, and CCF group it contains. All cross-references are
// Handle values into the slices below; see the node package for why.
type FaultTree struct {
	mu sync.RWMutex

	Name ident.Name

	Gates           []*gate.Gate
	BasicEvents     []*event.BasicEvent
	HouseEvents     []*event.HouseEvent
	UndefinedEvents []*event.UndefinedEvent
	CCFGroups       []*ccf.Group

	// TopGate is valid in single-root mode; TopGates is valid in
	// multi-root mode. In multi-root mode with a single root, Populate
	// sets both.
	TopGate  node.GateHandle
	TopGates []node.GateHandle
	MultiTop bool

	// NonCCFEvents lists basic events that belong to no CCF group,
	// computed by Populate.
	NonCCFEvents []node.BasicHandle

	scope   map[string]scopeEntry
	pending map[node.GateHandle][]pendingArg

	sink      diagnostics.Sink
	populated bool
}

// Option configures a FaultTree at construction time.
type Option func(*FaultTree)

// WithMultiTop allows more than one orphan gate to survive validation as
// independent roots, instead of being treated as an error.
func WithMultiTop() Option {
	return func(t *FaultTree) { t.MultiTop = true }
}

// WithSink attaches a diagnostics.Sink that receives orphan/undefined-event
// warnings during Populate. A nil sink (the default) discards warnings.
func WithSink(sink diagnostics.Sink) Option {
	return func(t *FaultTree) {
		if sink != nil {
			t.sink = sink
		}
	}
}

// New constructs an empty FaultTree named name.
func New(name ident.Name, opts ...Option) *FaultTree {
	t := &FaultTree{
		Name:    name,
		TopGate: node.NoGate,
		scope:   make(map[string]scopeEntry),
		pending: make(map[node.GateHandle][]pendingArg),
		sink:    diagnostics.NopSink{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *FaultTree) checkRedefinition(name ident.Name) error {
	if _, exists := t.scope[name.Key()]; exists {
		return fmt.Errorf("%w: %s", ErrRedefinition, name)
	}
	return nil
}

// AddBasicEvent inserts a basic event with a literal probability in [0,1].
// Fails with ErrRedefinition if name collides (case-insensitively) with any
// existing basic/house/gate/CCF name.
func (t *FaultTree) AddBasicEvent(name ident.Name, prob float64) (node.BasicHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRedefinition(name); err != nil {
		return node.NoBasic, wrapf("AddBasicEvent", err)
	}
	if err := expr.ValidateLiteral(prob); err != nil {
		return node.NoBasic, wrapf("AddBasicEvent", err)
	}
	h := node.BasicHandle(len(t.BasicEvents))
	t.BasicEvents = append(t.BasicEvents, event.NewLiteral(name, prob))
	t.scope[name.Key()] = scopeEntry{kind: scopeBasic, basic: h}

	return h, nil
}

// AddBasicEventExpr inserts a basic event whose probability is
// expression-valued (a parameter reference or arithmetic combination).
func (t *FaultTree) AddBasicEventExpr(name ident.Name, e expr.Expr) (node.BasicHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRedefinition(name); err != nil {
		return node.NoBasic, wrapf("AddBasicEventExpr", err)
	}
	h := node.BasicHandle(len(t.BasicEvents))
	t.BasicEvents = append(t.BasicEvents, event.NewExpression(name, e))
	t.scope[name.Key()] = scopeEntry{kind: scopeBasic, basic: h}

	return h, nil
}

// AddHouseEvent inserts a house event with the given boolean state.
func (t *FaultTree) AddHouseEvent(name ident.Name, state bool) (node.HouseHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRedefinition(name); err != nil {
		return node.NoHouse, wrapf("AddHouseEvent", err)
	}
	h := node.HouseHandle(len(t.HouseEvents))
	t.HouseEvents = append(t.HouseEvents, event.NewHouseEvent(name, state))
	t.scope[name.Key()] = scopeEntry{kind: scopeHouse, house: h}

	return h, nil
}

// AddGate inserts a gate whose argument list is stored as strings: names
// are resolved to handles only when Populate runs, which is what permits
// forward references in the shorthand grammar.
func (t *FaultTree) AddGate(name ident.Name, op gate.Operator, args []GateArgSpec, kNum int) (node.GateHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRedefinition(name); err != nil {
		return node.NoGate, wrapf("AddGate", err)
	}
	if err := op.ValidateArity(len(args), kNum); err != nil {
		return node.NoGate, wrapf("AddGate", err)
	}
	seen := make(map[string]struct{}, len(args))
	for _, a := range args {
		key := ident.Key(a.Name)
		if _, dup := seen[key]; dup {
			return node.NoGate, wrapf("AddGate", fmt.Errorf("%w: %s", ErrRepeatedArgument, a.Name))
		}
		seen[key] = struct{}{}
	}

	h := node.GateHandle(len(t.Gates))
	g := gate.New(name, op)
	g.KNum = kNum
	t.Gates = append(t.Gates, g)
	t.scope[name.Key()] = scopeEntry{kind: scopeGate, gate: h}

	raw := make([]pendingArg, len(args))
	for i, a := range args {
		raw[i] = pendingArg{name: a.Name, complement: a.Complement}
	}
	t.pending[h] = raw

	return h, nil
}

// AddCCFGroup inserts a CCF group. Unlike gates, CCF members must already
// exist as basic events at the time this is called — the shorthand grammar
// has no CCF statement (mef.Parse calls this after declaring the members;
// the generator uses ConstructCCFGroup instead), so there is no
// forward-reference case to support.
func (t *FaultTree) AddCCFGroup(name ident.Name, model ccf.Model, prob float64, factors []float64, memberNames []string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkRedefinition(name); err != nil {
		return -1, wrapf("AddCCFGroup", err)
	}

	members := make([]node.BasicHandle, 0, len(memberNames))
	for _, mn := range memberNames {
		entry, ok := t.scope[ident.Key(mn)]
		if !ok || entry.kind != scopeBasic {
			return -1, wrapf("AddCCFGroup", fmt.Errorf("%w: %s", ErrUnknownCCFMember, mn))
		}
		members = append(members, entry.basic)
	}

	g := ccf.New(name)
	g.Members = members
	g.Prob = prob
	g.Model = model
	g.Factors = factors
	if err := g.Validate(); err != nil {
		return -1, wrapf("AddCCFGroup", err)
	}

	idx := len(t.CCFGroups)
	t.CCFGroups = append(t.CCFGroups, g)
	t.scope[name.Key()] = scopeEntry{kind: scopeCCF, ccfIdx: idx}

	return idx, nil
}

// ConstructGate appends a new, argument-less gate directly and claims its
// name in scope, bypassing the name-based pending-argument bookkeeping that
// AddGate uses. The generator builds structure by handle as it grows the
// tree rather than by parsing forward name references, so it fills
// arguments in with BindArgument as it samples them instead of supplying
// the whole list up front.
func (t *FaultTree) ConstructGate(name ident.Name, op gate.Operator) node.GateHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := node.GateHandle(len(t.Gates))
	g := gate.New(name, op)
	t.Gates = append(t.Gates, g)
	t.scope[name.Key()] = scopeEntry{kind: scopeGate, gate: h}
	return h
}

// ConstructBasicEvent appends a new basic event with a literal probability
// directly, claiming its name in scope. See ConstructGate.
func (t *FaultTree) ConstructBasicEvent(name ident.Name, prob float64) node.BasicHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := node.BasicHandle(len(t.BasicEvents))
	t.BasicEvents = append(t.BasicEvents, event.NewLiteral(name, prob))
	t.scope[name.Key()] = scopeEntry{kind: scopeBasic, basic: h}
	return h
}

// ConstructHouseEvent appends a new house event directly, claiming its name
// in scope. See ConstructGate.
func (t *FaultTree) ConstructHouseEvent(name ident.Name, state bool) node.HouseHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := node.HouseHandle(len(t.HouseEvents))
	t.HouseEvents = append(t.HouseEvents, event.NewHouseEvent(name, state))
	t.scope[name.Key()] = scopeEntry{kind: scopeHouse, house: h}
	return h
}

// BindArgument appends arg to owner's argument list and immediately
// registers owner as a parent of whatever entity arg refers to. Unlike
// Populate's resolveArg, this has no pending/forward-reference step: the
// generator always has a concrete handle in hand before it calls this.
func (t *FaultTree) BindArgument(owner node.GateHandle, arg gate.ArgRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Gates[owner].AddArgument(arg)
	switch arg.Kind {
	case gate.ArgBasic:
		t.BasicEvents[arg.Basic].AddParent(owner)
	case gate.ArgHouse:
		t.HouseEvents[arg.House].AddParent(owner)
	case gate.ArgGate:
		t.Gates[arg.Gate].AddParent(owner)
	case gate.ArgUndefined:
		t.UndefinedEvents[arg.Undefined].AddParent(owner)
	}
}

// ConstructCCFGroup appends a CCF group directly from already-resolved
// member handles, bypassing AddCCFGroup's name lookup. Used by the
// generator, which partitions basic events it already holds handles for.
func (t *FaultTree) ConstructCCFGroup(name ident.Name, model ccf.Model, prob float64, factors []float64, members []node.BasicHandle) *ccf.Group {
	t.mu.Lock()
	defer t.mu.Unlock()

	g := ccf.New(name)
	g.Members = members
	g.Prob = prob
	g.Model = model
	g.Factors = factors
	t.CCFGroups = append(t.CCFGroups, g)
	t.scope[name.Key()] = scopeEntry{kind: scopeCCF, ccfIdx: len(t.CCFGroups) - 1}
	return g
}

// Basic returns the basic event at h.
func (t *FaultTree) Basic(h node.BasicHandle) *event.BasicEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.BasicEvents[h]
}

// House returns the house event at h.
func (t *FaultTree) House(h node.HouseHandle) *event.HouseEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.HouseEvents[h]
}

// GateAt returns the gate at h.
func (t *FaultTree) GateAt(h node.GateHandle) *gate.Gate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Gates[h]
}

// Undefined returns the undefined-event placeholder at h.
func (t *FaultTree) Undefined(h node.UndefinedHandle) *event.UndefinedEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.UndefinedEvents[h]
}

// PopulateOption configures a single call to Populate.
type PopulateOption func(*populateConfig)

type populateConfig struct {
	strict bool
}

// WithStrict rejects any gate argument name that fails to resolve, instead
// of promoting it to an UndefinedEvent with a warning. The canonical-XML
// construction flow uses this; the shorthand flow does not.
func WithStrict() PopulateOption {
	return func(c *populateConfig) { c.strict = true }
}

// Populate binds every gate's argument-name list to concrete handles,
// warns on orphan basic/house events, promotes unresolved names to
// UndefinedEvents (or fails with ErrUnresolvedReference in strict mode),
// then runs root detection and cycle detection. It may be called exactly
// once per FaultTree.
func (t *FaultTree) Populate(opts ...PopulateOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.populated {
		return wrapf("Populate", ErrAlreadyPopulated)
	}

	cfg := populateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	undefinedByKey := make(map[string]node.UndefinedHandle)

	for h := node.GateHandle(0); int(h) < len(t.Gates); h++ {
		g := t.Gates[h]
		raw := t.pending[h]
		for _, pa := range raw {
			ref, err := t.resolveArg(h, pa, cfg.strict, undefinedByKey)
			if err != nil {
				return wrapf("Populate", err)
			}
			g.AddArgument(ref)
		}
		delete(t.pending, h)
	}

	roots := make([]node.GateHandle, 0)
	for h, g := range t.Gates {
		if g.IsOrphan() {
			roots = append(roots, node.GateHandle(h))
		}
	}

	switch {
	case len(roots) == 0:
		return wrapf("Populate", ErrNoTopGate)
	case len(roots) == 1:
		t.TopGate = roots[0]
		if t.MultiTop {
			t.TopGates = roots
		}
	default:
		if !t.MultiTop {
			names := make([]string, len(roots))
			for i, r := range roots {
				names[i] = t.Gates[r].Name.String()
			}
			return wrapf("Populate", fmt.Errorf("%w: %s", ErrMultipleTopGates, strings.Join(names, ", ")))
		}
		t.TopGate = node.NoGate
		t.TopGates = roots
	}

	if err := dfs.DetectCycles(t.Gates, roots); err != nil {
		return wrapf("Populate", err)
	}

	t.computeNonCCFEvents()
	t.warnOrphans()
	if len(t.CCFGroups) > 0 {
		t.sink.CCFUncovered(len(t.NonCCFEvents))
	}

	t.populated = true
	return nil
}

// resolveArg dereferences a single pending argument against the name
// scope, registering the parent back-reference on the resolved entity. An
// unresolved name is promoted to a (possibly shared) UndefinedEvent in
// lenient mode, or reported as ErrUnresolvedReference in strict mode.
func (t *FaultTree) resolveArg(owner node.GateHandle, pa pendingArg, strict bool, undefinedByKey map[string]node.UndefinedHandle) (gate.ArgRef, error) {
	key := ident.Key(pa.name)
	entry, ok := t.scope[key]
	if !ok {
		if strict {
			return gate.ArgRef{}, fmt.Errorf("%w: %s", ErrUnresolvedReference, pa.name)
		}
		uh, exists := undefinedByKey[key]
		if !exists {
			name, err := ident.Parse(pa.name)
			if err != nil {
				return gate.ArgRef{}, err
			}
			uh = node.UndefinedHandle(len(t.UndefinedEvents))
			t.UndefinedEvents = append(t.UndefinedEvents, event.NewUndefinedEvent(name))
			undefinedByKey[key] = uh
			t.sink.UndefinedPromoted(pa.name)
		}
		t.UndefinedEvents[uh].AddParent(owner)
		return gate.UndefinedArg(uh, pa.complement), nil
	}

	switch entry.kind {
	case scopeBasic:
		t.BasicEvents[entry.basic].AddParent(owner)
		return gate.BasicArg(entry.basic, pa.complement), nil
	case scopeHouse:
		t.HouseEvents[entry.house].AddParent(owner)
		return gate.HouseArg(entry.house, pa.complement), nil
	case scopeGate:
		if entry.gate == owner {
			return gate.ArgRef{}, fmt.Errorf("%w: %s", ErrSelfReference, pa.name)
		}
		t.Gates[entry.gate].AddParent(owner)
		return gate.GateArg(entry.gate, pa.complement), nil
	default:
		return gate.ArgRef{}, fmt.Errorf("%w: %s resolves to a CCF group, not a valid argument", ErrUnresolvedReference, pa.name)
	}
}

func (t *FaultTree) computeNonCCFEvents() {
	grouped := make(map[node.BasicHandle]struct{})
	for _, g := range t.CCFGroups {
		for _, m := range g.Members {
			grouped[m] = struct{}{}
		}
	}
	t.NonCCFEvents = t.NonCCFEvents[:0]
	for h := range t.BasicEvents {
		bh := node.BasicHandle(h)
		if _, in := grouped[bh]; !in {
			t.NonCCFEvents = append(t.NonCCFEvents, bh)
		}
	}
}

func (t *FaultTree) warnOrphans() {
	for _, b := range t.BasicEvents {
		if b.IsOrphan() {
			t.sink.OrphanEvent("basic-event", b.Name.String())
		}
	}
	for _, h := range t.HouseEvents {
		if h.IsOrphan() {
			t.sink.OrphanEvent("house-event", h.Name.String())
		}
	}
}
