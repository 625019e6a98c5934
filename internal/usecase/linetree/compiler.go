package linetree

import "chess_repertoire/internal/domain/repertoire"

const DefaultMaxDepth = 50

type Options struct {
	Openings OpeningBook
	// MaxDepth bounds the recursion on malformed (cyclic) graphs.
	MaxDepth int
}

type Tree struct {
	Root           *repertoire.Line
	Transpositions repertoire.TranspositionIndex
	// Truncated is set when some branch hit MaxDepth.
	Truncated bool
}

type compiler struct {
	graph     *repertoire.Graph
	color     repertoire.Color
	openings  OpeningBook
	maxDepth  int
	index     repertoire.TranspositionIndex
	truncated bool
}

// Compile turns the position graph into a line tree rooted at rootKey (the
// graph's starting position when empty). Chains of single candidate moves
// are merged into one Line, positions with several candidates branch, and
// positions reached again by another move order are linked through the
// transposition index instead of being expanded twice.
func Compile(graph *repertoire.Graph, rootKey string, opts Options) *Tree {
	root := &repertoire.Line{}
	tree := &Tree{Root: root, Transpositions: make(repertoire.TranspositionIndex)}
	if graph == nil {
		return tree
	}
	if rootKey == "" {
		rootKey = graph.StartingPositionKey
	}
	pos, ok := graph.Position(rootKey)
	if !ok || len(pos.Moves) == 0 {
		return tree
	}

	c := &compiler{
		graph:    graph,
		color:    graph.Color,
		openings: opts.Openings,
		maxDepth: opts.MaxDepth,
		index:    tree.Transpositions,
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}

	c.branch(root, pos.Moves, 0)
	root.Unfinished = false

	if len(c.openings) > 0 {
		Walk(root, func(line *repertoire.Line) bool {
			line.Opening = c.openings.Resolve(line.Notation)
			return true
		})
	}
	tree.Truncated = c.truncated
	return tree
}

// extend resolves the continuation of line from the position at key. The
// key is registered before anything below it is visited.
func (c *compiler) extend(line *repertoire.Line, key string, depth int) {
	if depth >= c.maxDepth {
		c.truncated = true
		return
	}
	c.register(key, line, max(len(line.MoveSequence)-1, 0))

	pos, ok := c.graph.Position(key)
	if ok {
		switch len(pos.Moves) {
		case 0:
		case 1:
			move := pos.Moves[0]
			AppendMoves([]*repertoire.Move{move}, line)
			dest := repertoire.SanitizeKey(move.ResultingPositionKey)
			if c.follow(line, dest) {
				c.extend(line, dest, depth+1)
			}
		default:
			c.branch(line, pos.Moves, depth+1)
		}
	}
	c.resolveUnfinished(line)
}

func (c *compiler) branch(parent *repertoire.Line, moves []*repertoire.Move, depth int) {
	for _, move := range moves {
		ply := parent.EndPly()
		notation := parent.Notation + SeparatorFor(ply, parent.Notation) + move.Notation
		child := &repertoire.Line{
			ID:           notation,
			Notation:     notation,
			MoveSequence: []*repertoire.Move{move},
			Depth:        ply,
		}
		parent.Children = append(parent.Children, child)

		dest := repertoire.SanitizeKey(move.ResultingPositionKey)
		if c.follow(child, dest) {
			c.extend(child, dest, depth)
		}
	}
	parent.Unfinished = false
}

// follow registers dest as reached by the last move of line. It reports
// false when dest already belongs to another line: line then borrows that
// line's continuation.
func (c *compiler) follow(line *repertoire.Line, dest string) bool {
	el, seen := c.index[dest]
	if !seen {
		c.register(dest, line, len(line.MoveSequence)-1)
		return true
	}
	if el.Line != line {
		HandleTransposition(c.index, el, line, dest)
		return false
	}
	return true
}

func (c *compiler) register(key string, line *repertoire.Line, moveIndex int) {
	if _, ok := c.index[key]; ok {
		return
	}
	c.index[key] = &repertoire.TranspositionElement{Line: line, MoveIndex: moveIndex}
}

// resolveUnfinished marks a line that stops on an opponent move with no
// prepared reply. Lines escaping through a transposition are never unfinished.
func (c *compiler) resolveUnfinished(line *repertoire.Line) {
	if line.Transposition != nil {
		line.Unfinished = false
		return
	}
	last := line.LastMove()
	line.Unfinished = last != nil && last.Color != c.color && len(line.Children) == 0
}

// HandleTransposition links arriving to the canonical element of key. Every
// call records one more reference; nothing is traversed, so it terminates
// even when the canonical line leads back towards arriving.
func HandleTransposition(index repertoire.TranspositionIndex, el *repertoire.TranspositionElement, arriving *repertoire.Line, key string) {
	if el == nil || arriving == nil {
		return
	}
	ref := repertoire.TranspositionReference{Line: arriving, MoveIndex: len(arriving.MoveSequence) - 1}
	if el.UsedIn != nil {
		el.UsedIn = append(el.UsedIn, ref)
	} else {
		el.UsedIn = []repertoire.TranspositionReference{ref}
		if el.Line != nil {
			el.Line.Flags.IsShared = true
		}
	}
	if index != nil {
		if _, ok := index[key]; !ok {
			index[key] = el
		}
	}
	arriving.Transposition = el
	arriving.Unfinished = false
}

// Walk visits the tree in document order. Returning false from fn skips the
// children of that line.
func Walk(root *repertoire.Line, fn func(line *repertoire.Line) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, fn)
	}
}
