package repertoire

// Line carries back-pointers through transpositions, so responses are built
// from these flat views instead.

type TranspositionView struct {
	LineID    string    `json:"line_id"`
	MoveIndex int       `json:"move_index"`
	UsedIn    []RefView `json:"used_in,omitempty"`
}

type RefView struct {
	LineID    string `json:"line_id"`
	MoveIndex int    `json:"move_index"`
}

type LineView struct {
	ID            string             `json:"id"`
	Notation      string             `json:"notation"`
	Depth         int                `json:"depth"`
	Moves         []Move             `json:"moves"`
	Children      []LineView         `json:"children,omitempty"`
	IsShared      bool               `json:"is_shared"`
	Unfinished    bool               `json:"unfinished"`
	Opening       string             `json:"opening,omitempty"`
	Transposition *TranspositionView `json:"transposition,omitempty"`
}

type LocationView struct {
	Line        LineView `json:"line"`
	ParentID    string   `json:"parent_id"`
	MoveIndex   int      `json:"move_index"`
	Truncated   string   `json:"truncated_notation"`
	IsCanonical bool     `json:"is_canonical"`
}

type TrainingLine struct {
	Notation     string `json:"notation"`
	Opening      string `json:"opening,omitempty"`
	Plies        int    `json:"plies"`
	Unfinished   bool   `json:"unfinished"`
	TransposesTo string `json:"transposes_to,omitempty"`
}

func NewTranspositionView(el *TranspositionElement) *TranspositionView {
	if el == nil || el.Line == nil {
		return nil
	}
	view := &TranspositionView{LineID: el.Line.ID, MoveIndex: el.MoveIndex}
	for _, ref := range el.UsedIn {
		if ref.Line == nil {
			continue
		}
		view.UsedIn = append(view.UsedIn, RefView{LineID: ref.Line.ID, MoveIndex: ref.MoveIndex})
	}
	return view
}

// NewLineView copies line and, when recursive is set, its whole subtree.
func NewLineView(line *Line, recursive bool) LineView {
	if line == nil {
		return LineView{}
	}
	view := LineView{
		ID:            line.ID,
		Notation:      line.Notation,
		Depth:         line.Depth,
		Moves:         make([]Move, 0, len(line.MoveSequence)),
		IsShared:      line.Flags.IsShared,
		Unfinished:    line.Unfinished,
		Opening:       line.Opening,
		Transposition: NewTranspositionView(line.Transposition),
	}
	for _, m := range line.MoveSequence {
		view.Moves = append(view.Moves, *m)
	}
	if recursive {
		for _, child := range line.Children {
			view.Children = append(view.Children, NewLineView(child, true))
		}
	}
	return view
}

type TrainingPage struct {
	PageNum            int            `json:"page"`
	TotalPages         int            `json:"total_pages"`
	PageWithUnfinished int            `json:"page_with_unfinished"`
	Lines              []TrainingLine `json:"lines"`
}
