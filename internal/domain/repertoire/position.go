package repertoire

import (
	"encoding/hex"
	"sort"
	"strings"

	"lukechampine.com/blake3"
)

type Color string

const (
	ColorWhite Color = "w"
	ColorBlack Color = "b"
)

func (c Color) Valid() bool {
	return c == ColorWhite || c == ColorBlack
}

func (c Color) Opponent() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// @name Move
type Move struct {
	From                 string `json:"from" bson:"from" yaml:"from"`
	To                   string `json:"to" bson:"to" yaml:"to"`
	Notation             string `json:"notation" bson:"notation" yaml:"notation"` // SAN
	Color                Color  `json:"color" bson:"color" yaml:"color"`
	ResultingPositionKey string `json:"resulting_position_key" bson:"resulting_position_key" yaml:"resulting_position_key"`
	Flags                string `json:"flags,omitempty" bson:"flags,omitempty" yaml:"flags,omitempty"`
	Captured             string `json:"captured,omitempty" bson:"captured,omitempty" yaml:"captured,omitempty"`
	Promotion            string `json:"promotion,omitempty" bson:"promotion,omitempty" yaml:"promotion,omitempty"`
}

// Position holds the candidate moves recorded for one board state, in the
// order they were added.
type Position struct {
	Moves []*Move `json:"moves" bson:"moves" yaml:"moves"`
}

func (p *Position) Move(notation string) (*Move, bool) {
	if p == nil {
		return nil, false
	}
	for _, m := range p.Moves {
		if m.Notation == notation {
			return m, true
		}
	}
	return nil, false
}

func (p *Position) RemoveMove(notation string) bool {
	if p == nil {
		return false
	}
	for i, m := range p.Moves {
		if m.Notation == notation {
			p.Moves = append(p.Moves[:i], p.Moves[i+1:]...)
			return true
		}
	}
	return false
}

// Graph is the position-keyed repertoire: every key is sanitized.
type Graph struct {
	StartingPositionKey string               `json:"starting_position_key" bson:"starting_position_key" yaml:"starting_position_key"`
	Color               Color                `json:"color" bson:"color" yaml:"color"`
	Positions           map[string]*Position `json:"positions" bson:"-" yaml:"positions"`
}

func NewGraph(startingKey string, color Color) *Graph {
	key := SanitizeKey(startingKey)
	return &Graph{
		StartingPositionKey: key,
		Color:               color,
		Positions:           map[string]*Position{key: {}},
	}
}

func (g *Graph) Position(key string) (*Position, bool) {
	if g == nil || g.Positions == nil {
		return nil, false
	}
	p, ok := g.Positions[SanitizeKey(key)]
	return p, ok
}

// AddMove records move as a candidate out of positionKey. The destination
// position is created empty when it is not in the graph yet.
func (g *Graph) AddMove(positionKey string, move *Move) bool {
	if g.Positions == nil {
		g.Positions = make(map[string]*Position)
	}
	key := SanitizeKey(positionKey)
	move.ResultingPositionKey = SanitizeKey(move.ResultingPositionKey)

	p, ok := g.Positions[key]
	if !ok {
		p = &Position{}
		g.Positions[key] = p
	}
	if _, exists := p.Move(move.Notation); exists {
		return false
	}
	p.Moves = append(p.Moves, move)

	if _, ok := g.Positions[move.ResultingPositionKey]; !ok {
		g.Positions[move.ResultingPositionKey] = &Position{}
	}
	return true
}

// Normalize sanitizes every key of a graph read from an external file.
// Positions whose keys collapse together are merged in raw key order, the
// first notation wins. Moves without a color take the side to move of their
// position.
func (g *Graph) Normalize() {
	g.StartingPositionKey = SanitizeKey(g.StartingPositionKey)
	rawKeys := make([]string, 0, len(g.Positions))
	for raw := range g.Positions {
		rawKeys = append(rawKeys, raw)
	}
	sort.Strings(rawKeys)

	positions := make(map[string]*Position, len(g.Positions))
	for _, raw := range rawKeys {
		p := g.Positions[raw]
		if p == nil {
			p = &Position{}
		}
		key := SanitizeKey(raw)
		dst, ok := positions[key]
		if !ok {
			dst = &Position{}
			positions[key] = dst
		}
		for _, m := range p.Moves {
			if m == nil {
				continue
			}
			m.ResultingPositionKey = SanitizeKey(m.ResultingPositionKey)
			if m.Color == "" {
				if fields := strings.Fields(key); len(fields) > 1 {
					m.Color = Color(fields[1])
				}
			}
			if _, exists := dst.Move(m.Notation); !exists {
				dst.Moves = append(dst.Moves, m)
			}
		}
	}
	if _, ok := positions[g.StartingPositionKey]; !ok {
		positions[g.StartingPositionKey] = &Position{}
	}
	g.Positions = positions
}

// Digest is a content hash of the graph, stable across map iteration order.
func (g *Graph) Digest() string {
	h := blake3.New(32, nil)
	if g == nil {
		return hex.EncodeToString(h.Sum(nil))
	}
	h.Write([]byte(g.StartingPositionKey))
	h.Write([]byte{0})
	h.Write([]byte(g.Color))
	h.Write([]byte{0})

	keys := make([]string, 0, len(g.Positions))
	for k := range g.Positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
		for _, m := range g.Positions[k].Moves {
			for _, field := range []string{
				m.Notation, m.ResultingPositionKey, string(m.Color),
				m.From, m.To, m.Flags, m.Captured, m.Promotion,
			} {
				h.Write([]byte(field))
				h.Write([]byte{0})
			}
			h.Write([]byte{'\n'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SanitizeKey reduces a FEN-like key to placement, side to move and castling
// rights so that move clocks do not split equal positions.
func SanitizeKey(key string) string {
	fields := strings.Fields(key)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}

// Clone deep-copies the graph so stores never share moves with callers.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		StartingPositionKey: g.StartingPositionKey,
		Color:               g.Color,
		Positions:           make(map[string]*Position, len(g.Positions)),
	}
	for key, p := range g.Positions {
		cp := &Position{Moves: make([]*Move, 0, len(p.Moves))}
		for _, m := range p.Moves {
			mv := *m
			cp.Moves = append(cp.Moves, &mv)
		}
		out.Positions[key] = cp
	}
	return out
}

// Prune drops positions that can no longer be reached from the starting
// position and reports how many were removed.
func (g *Graph) Prune() int {
	if g == nil || g.Positions == nil {
		return 0
	}
	reachable := map[string]bool{g.StartingPositionKey: true}
	queue := []string{g.StartingPositionKey}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		p, ok := g.Positions[key]
		if !ok {
			continue
		}
		for _, m := range p.Moves {
			dest := SanitizeKey(m.ResultingPositionKey)
			if !reachable[dest] {
				reachable[dest] = true
				queue = append(queue, dest)
			}
		}
	}
	removed := 0
	for key := range g.Positions {
		if !reachable[key] {
			delete(g.Positions, key)
			removed++
		}
	}
	return removed
}
