package repertoire

import "time"

type LineFlags struct {
	IsShared    bool
	ToBeUpdated bool
}

// Line is one unbranched run of plies in the compiled tree. Notation carries
// the whole movetext from the repertoire root, ID mirrors it.
type Line struct {
	ID           string
	Notation     string
	MoveSequence []*Move
	Children     []*Line
	Depth        int
	Flags        LineFlags
	Unfinished   bool
	// Transposition is non-owning: it points into another Line of the same tree.
	Transposition *TranspositionElement
	Opening       string
}

func (l *Line) LastMove() *Move {
	if l == nil || len(l.MoveSequence) == 0 {
		return nil
	}
	return l.MoveSequence[len(l.MoveSequence)-1]
}

// EndPly is the ply right after the last move of the line.
func (l *Line) EndPly() int {
	return l.Depth + len(l.MoveSequence)
}

// TranspositionElement is the canonical occurrence of a position. UsedIn is
// nil until another line reaches the same position.
type TranspositionElement struct {
	Line      *Line
	MoveIndex int
	UsedIn    []TranspositionReference
}

type TranspositionReference struct {
	Line      *Line
	MoveIndex int
}

type TranspositionIndex map[string]*TranspositionElement

type Repertoire struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Color     Color     `json:"color" bson:"color"`
	Graph     *Graph    `json:"graph" bson:"graph"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type RepertoireSummary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Color     Color     `json:"color" bson:"color"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateRepertoireRequest struct {
	Name                string `json:"name"`
	Color               Color  `json:"color"`
	StartingPositionKey string `json:"starting_position_key"`
}

type AddMoveRequest struct {
	PositionKey string `json:"position_key"`
	Move        Move   `json:"move"`
}

type DeleteMoveRequest struct {
	Notation    string `json:"notation"`
	PositionKey string `json:"position_key"`
}

type CursorRequest struct {
	Notation    string `json:"notation"`
	PositionKey string `json:"position_key"`
}
