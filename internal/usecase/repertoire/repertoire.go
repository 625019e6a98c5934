package repertoire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/errors"
	"chess_repertoire/internal/usecase/export"
	"chess_repertoire/internal/usecase/linetree"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	exportPGN = "pgn"
	exportPDF = "pdf"
)

type RepertoireStore interface {
	GetRepertoire(ctx context.Context, id string) (repertoire.Repertoire, error)
	PutRepertoire(ctx context.Context, rep repertoire.Repertoire) error
	DeleteRepertoire(ctx context.Context, id string) error
	ListRepertoires(ctx context.Context) ([]repertoire.RepertoireSummary, error)
}

type ExportCache interface {
	LoadExport(ctx context.Context, kind, id, digest string) ([]byte, bool, error)
	SaveExport(ctx context.Context, kind, id, digest string, data []byte) error
}

type Options struct {
	Openings  linetree.OpeningBook
	MaxDepth  int
	CacheSize int
	PageSize  int
}

type RepertoireUseCase struct {
	store    RepertoireStore
	exports  ExportCache
	log      *zap.SugaredLogger
	trees    *lru.Cache[string, *linetree.Tree]
	openings linetree.OpeningBook
	maxDepth int
	pageSize int
	now      func() time.Time
}

// NewRepertoireUseCase wires the store with an in-process cache of compiled
// trees. exports may be nil, exports are then rendered on every request.
func NewRepertoireUseCase(store RepertoireStore, exports ExportCache, log *zap.SugaredLogger, opts Options) (*RepertoireUseCase, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 128
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	trees, err := lru.New[string, *linetree.Tree](size)
	if err != nil {
		return nil, err
	}
	return &RepertoireUseCase{
		store:    store,
		exports:  exports,
		log:      log,
		trees:    trees,
		openings: opts.Openings,
		maxDepth: opts.MaxDepth,
		pageSize: pageSize,
		now:      time.Now,
	}, nil
}

func (r *RepertoireUseCase) CreateRepertoire(ctx context.Context, req repertoire.CreateRepertoireRequest) (repertoire.Repertoire, error) {
	if !req.Color.Valid() {
		return repertoire.Repertoire{}, errors.ErrInvalidColor
	}
	start := req.StartingPositionKey
	if strings.TrimSpace(start) == "" {
		start = StartingFEN
	}

	now := r.now()
	rep := repertoire.Repertoire{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Color:     req.Color,
		Graph:     repertoire.NewGraph(start, req.Color),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.PutRepertoire(ctx, rep); err != nil {
		return repertoire.Repertoire{}, err
	}

	r.log.Infof("repertoire %s (%s) created for color %s", rep.ID, rep.Name, rep.Color)
	return rep, nil
}

func (r *RepertoireUseCase) ListRepertoires(ctx context.Context) ([]repertoire.RepertoireSummary, error) {
	return r.store.ListRepertoires(ctx)
}

func (r *RepertoireUseCase) DeleteRepertoire(ctx context.Context, id string) error {
	if err := r.store.DeleteRepertoire(ctx, id); err != nil {
		return err
	}
	for _, k := range r.trees.Keys() {
		if strings.HasPrefix(k, id+":") {
			r.trees.Remove(k)
		}
	}
	return nil
}

// GetTree compiles the repertoire, reusing a cached tree while the graph is
// unchanged. Any edit changes the digest and forces a full rebuild.
func (r *RepertoireUseCase) GetTree(ctx context.Context, id string) (*linetree.Tree, error) {
	rep, err := r.store.GetRepertoire(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, _ := r.compile(rep)
	return tree, nil
}

func (r *RepertoireUseCase) compile(rep repertoire.Repertoire) (*linetree.Tree, string) {
	digest := rep.Graph.Digest()
	cacheKey := rep.ID + ":" + digest
	if tree, ok := r.trees.Get(cacheKey); ok {
		return tree, digest
	}

	started := time.Now()
	tree := linetree.Compile(rep.Graph, "", linetree.Options{Openings: r.openings, MaxDepth: r.maxDepth})
	stats := tree.Stats()
	r.log.Debugw("repertoire compiled",
		"id", rep.ID,
		"lines", stats.Lines,
		"transpositions", stats.Transpositions,
		"unfinished", stats.Unfinished,
		"elapsed", time.Since(started),
	)
	if stats.Truncated {
		r.log.Warnf("repertoire %s hit the compile depth limit, the tree is truncated", rep.ID)
	}

	r.trees.Add(cacheKey, tree)
	return tree, digest
}

func (r *RepertoireUseCase) AddMove(ctx context.Context, id string, req repertoire.AddMoveRequest) (*linetree.Tree, error) {
	move := req.Move
	if strings.TrimSpace(move.Notation) == "" || strings.TrimSpace(move.ResultingPositionKey) == "" || strings.TrimSpace(req.PositionKey) == "" {
		return nil, errors.ErrInvalidMove
	}
	if move.Color == "" {
		move.Color = sideToMove(req.PositionKey)
	}
	if !move.Color.Valid() {
		return nil, errors.ErrInvalidColor
	}

	rep, err := r.store.GetRepertoire(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := rep.Graph.Position(req.PositionKey); !ok {
		return nil, errors.ErrPositionNotFound
	}
	if !rep.Graph.AddMove(req.PositionKey, &move) {
		return nil, errors.ErrMoveExists
	}

	rep.UpdatedAt = r.now()
	if err = r.store.PutRepertoire(ctx, rep); err != nil {
		return nil, err
	}

	r.log.Infof("move %s added to repertoire %s", move.Notation, id)
	tree, _ := r.compile(rep)
	if loc := linetree.FindLineWithMove(tree.Root, &move); loc != nil {
		r.log.Debugf("move %s compiled into line %q at index %d", move.Notation, loc.CurrentLine.ID, loc.MoveIndex)
	} else {
		r.log.Debugf("move %s is not reachable from the starting position", move.Notation)
	}
	return tree, nil
}

// DeleteMove removes the move that reaches positionKey on the branch named
// by notation, then drops every position left unreachable.
func (r *RepertoireUseCase) DeleteMove(ctx context.Context, id string, req repertoire.DeleteMoveRequest) (*linetree.Tree, error) {
	rep, err := r.store.GetRepertoire(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, _ := r.compile(rep)

	loc := linetree.Locate(tree.Root, req.Notation, req.PositionKey)
	if loc == nil {
		return nil, errors.ErrLineNotFound
	}
	move := loc.CurrentLine.MoveSequence[loc.MoveIndex]
	from := sourcePositionKey(rep.Graph, loc)

	pos, ok := rep.Graph.Position(from)
	if !ok {
		return nil, errors.ErrPositionNotFound
	}
	if !pos.RemoveMove(move.Notation) {
		return nil, errors.ErrMoveNotFound
	}
	pruned := rep.Graph.Prune()

	rep.UpdatedAt = r.now()
	if err = r.store.PutRepertoire(ctx, rep); err != nil {
		return nil, err
	}

	r.log.Infof("move %s deleted from repertoire %s, %d positions pruned", move.Notation, id, pruned)
	tree, _ = r.compile(rep)
	return tree, nil
}

// sourcePositionKey is the position the located move was played from.
func sourcePositionKey(g *repertoire.Graph, loc *linetree.Location) string {
	if loc.MoveIndex > 0 {
		return loc.CurrentLine.MoveSequence[loc.MoveIndex-1].ResultingPositionKey
	}
	if last := loc.ParentLine.LastMove(); last != nil {
		return last.ResultingPositionKey
	}
	return g.StartingPositionKey
}

func (r *RepertoireUseCase) Locate(ctx context.Context, id, notation, positionKey string) (repertoire.LocationView, error) {
	tree, err := r.GetTree(ctx, id)
	if err != nil {
		return repertoire.LocationView{}, err
	}
	loc := linetree.Locate(tree.Root, notation, positionKey)
	if loc == nil {
		return repertoire.LocationView{}, errors.ErrLineNotFound
	}

	view := repertoire.LocationView{
		Line:      repertoire.NewLineView(loc.CurrentLine, false),
		ParentID:  loc.ParentLine.ID,
		MoveIndex: loc.MoveIndex,
		Truncated: linetree.TruncateNotationAt(loc.CurrentLine, loc.MoveIndex),
	}
	if el, ok := tree.Transpositions[repertoire.SanitizeKey(positionKey)]; ok {
		view.IsCanonical = el.Line == loc.CurrentLine && el.MoveIndex == loc.MoveIndex
	}
	return view, nil
}

// TrainingLines lists every leaf line of the tree, the input of the
// training index.
func (r *RepertoireUseCase) TrainingLines(ctx context.Context, id string) ([]repertoire.TrainingLine, error) {
	tree, err := r.GetTree(ctx, id)
	if err != nil {
		return nil, err
	}
	leaves := tree.Leaves()
	result := make([]repertoire.TrainingLine, 0, len(leaves))
	for _, leaf := range leaves {
		item := repertoire.TrainingLine{
			Notation:   leaf.Notation,
			Opening:    leaf.Opening,
			Plies:      leaf.EndPly(),
			Unfinished: leaf.Unfinished,
		}
		if el := leaf.Transposition; el != nil && el.Line != nil {
			item.TransposesTo = el.Line.Notation
			item.Unfinished = el.Line.Unfinished
		}
		result = append(result, item)
	}
	return result, nil
}

// TrainingPage slices the training lines into pages, and points at the first
// page that still holds an unfinished line.
func (r *RepertoireUseCase) TrainingPage(ctx context.Context, id string, pageNum int) (repertoire.TrainingPage, error) {
	if pageNum < 1 {
		return repertoire.TrainingPage{}, fmt.Errorf("page %d: %w", pageNum, errors.ErrInvalidPage)
	}
	lines, err := r.TrainingLines(ctx, id)
	if err != nil {
		return repertoire.TrainingPage{}, err
	}

	pageWithUnfinished := 1
	for i, line := range lines {
		if line.Unfinished {
			pageWithUnfinished = (i / r.pageSize) + 1
			break
		}
	}

	totalPages := (len(lines) + r.pageSize - 1) / r.pageSize
	start := (pageNum - 1) * r.pageSize
	end := start + r.pageSize
	if start > len(lines) {
		start = len(lines)
	}
	if end > len(lines) {
		end = len(lines)
	}

	return repertoire.TrainingPage{
		PageNum:            pageNum,
		TotalPages:         totalPages,
		PageWithUnfinished: pageWithUnfinished,
		Lines:              lines[start:end],
	}, nil
}

func (r *RepertoireUseCase) ExportPGN(ctx context.Context, id string) (string, error) {
	data, err := r.cachedExport(ctx, id, exportPGN, func(rep repertoire.Repertoire, tree *linetree.Tree) ([]byte, error) {
		return []byte(export.PGN(tree)), nil
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *RepertoireUseCase) ExportPDF(ctx context.Context, id string, w io.Writer) error {
	data, err := r.cachedExport(ctx, id, exportPDF, func(rep repertoire.Repertoire, tree *linetree.Tree) ([]byte, error) {
		var buf bytes.Buffer
		if err := export.PDF(rep.Name, tree, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *RepertoireUseCase) cachedExport(ctx context.Context, id, kind string, render func(repertoire.Repertoire, *linetree.Tree) ([]byte, error)) ([]byte, error) {
	rep, err := r.store.GetRepertoire(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, digest := r.compile(rep)

	if r.exports != nil {
		data, ok, err := r.exports.LoadExport(ctx, kind, id, digest)
		if err != nil {
			r.log.Warnf("export cache unavailable: %v", err)
		} else if ok {
			return data, nil
		}
	}

	data, err := render(rep, tree)
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", kind, err)
	}

	if r.exports != nil {
		if err := r.exports.SaveExport(ctx, kind, id, digest, data); err != nil {
			r.log.Warnf("failed to cache %s export for %s: %v", kind, id, err)
		}
	}
	return data, nil
}

func sideToMove(positionKey string) repertoire.Color {
	fields := strings.Fields(positionKey)
	if len(fields) < 2 {
		return ""
	}
	return repertoire.Color(fields[1])
}
