package dfs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/node"
)

// ErrCycleDetected is the sentinel wrapped by every CycleError. Callers
// that only care whether a cycle exists, not its path, can test with
// errors.Is(err, dfs.ErrCycleDetected).
var ErrCycleDetected = errors.New("dfs: cycle detected")

// CycleError carries the full cycle path, in top-down order starting from
// the repeated gate, as the names the caller declared them with.
type CycleError struct {
	Names []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dfs: cycle detected: %s", strings.Join(e.Names, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// frame is one entry of the explicit traversal stack: the gate being
// visited and the index of the next argument to examine. Using an explicit
// stack instead of host recursion is required because generated trees
// routinely exceed a few thousand nested gates.
type frame struct {
	handle node.GateHandle
	argIdx int
}

// ResetMarks returns every gate to gate.Unmarked. Call this on every exit
// path of a traversal, including error returns — leaving a stray
// Temporary or Permanent mark corrupts the next traversal.
func ResetMarks(gates []*gate.Gate) {
	for _, g := range gates {
		g.Mark = gate.Unmarked
	}
}

// DetectCycles runs three-colour DFS from each of roots, then re-scans any
// gate left Unmarked (a detached subgraph not reachable from any declared
// root) as its own traversal. Marks are reset to Unmarked on every return,
// success or failure.
func DetectCycles(gates []*gate.Gate, roots []node.GateHandle) error {
	defer ResetMarks(gates)

	for _, r := range roots {
		if gates[r].Mark == gate.Unmarked {
			if err := walk(gates, r, nil); err != nil {
				return err
			}
		}
	}
	for h := range gates {
		if gates[h].Mark == gate.Unmarked {
			if err := walk(gates, node.GateHandle(h), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopoSort runs the same three-colour DFS as DetectCycles but collects a
// postorder ordering: every gate precedes every gate that arguments it
// (an argument always finishes, and is appended, before the gate that
// references it). Ties among independent subgraphs are broken by root
// order. Returns a CycleError if the graph is not acyclic; marks are
// Unmarked on return either way.
func TopoSort(gates []*gate.Gate, roots []node.GateHandle) ([]node.GateHandle, error) {
	defer ResetMarks(gates)

	var post []node.GateHandle
	for _, r := range roots {
		if gates[r].Mark == gate.Unmarked {
			if err := walk(gates, r, &post); err != nil {
				return nil, err
			}
		}
	}
	for h := range gates {
		if gates[h].Mark == gate.Unmarked {
			if err := walk(gates, node.GateHandle(h), &post); err != nil {
				return nil, err
			}
		}
	}

	return post, nil
}

// walk performs one iterative DFS from start, marking gates Temporary while
// on the current path and Permanent once fully explored. If post is
// non-nil, finished gates are appended to it in postorder, which is already
// the dependencies-first order TopoSort returns.
func walk(gates []*gate.Gate, start node.GateHandle, post *[]node.GateHandle) error {
	gates[start].Mark = gate.Temporary
	stack := []frame{{handle: start, argIdx: 0}}
	path := []node.GateHandle{start}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		g := gates[top.handle]

		if top.argIdx >= len(g.Arguments) {
			g.Mark = gate.Permanent
			if post != nil {
				*post = append(*post, top.handle)
			}
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		arg := g.Arguments[top.argIdx]
		top.argIdx++

		if arg.Kind != gate.ArgGate {
			continue
		}
		switch gates[arg.Gate].Mark {
		case gate.Permanent:
			continue
		case gate.Temporary:
			return cycleError(gates, path, arg.Gate)
		default:
			gates[arg.Gate].Mark = gate.Temporary
			stack = append(stack, frame{handle: arg.Gate, argIdx: 0})
			path = append(path, arg.Gate)
		}
	}
	return nil
}

// cycleError builds a CycleError from the current DFS path and the
// repeated gate h that closes the cycle: it unwinds path to where h first
// appears and reports top-down, from that ancestor back to itself.
func cycleError(gates []*gate.Gate, path []node.GateHandle, h node.GateHandle) error {
	idx := 0
	for i, p := range path {
		if p == h {
			idx = i
			break
		}
	}
	cycle := append(append([]node.GateHandle{}, path[idx:]...), h)
	names := make([]string, len(cycle))
	for i, c := range cycle {
		names[i] = gates[c].Name.String()
	}
	return &CycleError{Names: names}
}
