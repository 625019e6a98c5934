package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"chess_repertoire/internal/domain/repertoire"
	errs "chess_repertoire/internal/errors"
)

const repertoireCollection = "repertoires"

// Position keys contain spaces and slashes, so positions are stored as an
// array of documents rather than as a map keyed by position.
type positionDocument struct {
	Key   string            `bson:"key"`
	Moves []repertoire.Move `bson:"moves"`
}

type repertoireDocument struct {
	ID                  string             `bson:"_id"`
	Name                string             `bson:"name"`
	Color               repertoire.Color   `bson:"color"`
	StartingPositionKey string             `bson:"starting_position_key"`
	Positions           []positionDocument `bson:"positions"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
}

type RepertoireMongoStorage struct {
	log        *zap.SugaredLogger
	collection *mongo.Collection
}

func NewRepertoireMongoStorage(log *zap.SugaredLogger, db *mongo.Database) *RepertoireMongoStorage {
	return &RepertoireMongoStorage{
		log:        log,
		collection: db.Collection(repertoireCollection),
	}
}

func (r *RepertoireMongoStorage) GetRepertoire(ctx context.Context, id string) (repertoire.Repertoire, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc repertoireDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repertoire.Repertoire{}, errs.ErrRepertoireNotFound
	} else if err != nil {
		r.log.Errorf("failed to load repertoire %s: %v", id, err)
		return repertoire.Repertoire{}, fmt.Errorf("load repertoire %s: %w", id, err)
	}

	return fromDocument(doc), nil
}

func (r *RepertoireMongoStorage) PutRepertoire(ctx context.Context, rep repertoire.Repertoire) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := toDocument(rep)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		r.log.Errorf("failed to save repertoire %s: %v", rep.ID, err)
		return fmt.Errorf("save repertoire %s: %w", rep.ID, err)
	}

	r.log.Debugf("repertoire %s saved with %d positions", rep.ID, len(doc.Positions))
	return nil
}

func (r *RepertoireMongoStorage) DeleteRepertoire(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete repertoire %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrRepertoireNotFound
	}
	return nil
}

func (r *RepertoireMongoStorage) ListRepertoires(ctx context.Context) ([]repertoire.RepertoireSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"name": 1, "color": 1, "updated_at": 1}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]repertoire.RepertoireSummary, 0)
	for cursor.Next(ctx) {
		var summary repertoire.RepertoireSummary
		if err = cursor.Decode(&summary); err != nil {
			r.log.Error(err)
			return nil, err
		}
		result = append(result, summary)
	}

	return result, cursor.Err()
}

func toDocument(rep repertoire.Repertoire) repertoireDocument {
	doc := repertoireDocument{
		ID:        rep.ID,
		Name:      rep.Name,
		Color:     rep.Color,
		CreatedAt: rep.CreatedAt,
		UpdatedAt: rep.UpdatedAt,
		Positions: make([]positionDocument, 0),
	}
	if rep.Graph == nil {
		return doc
	}
	doc.StartingPositionKey = rep.Graph.StartingPositionKey

	keys := make([]string, 0, len(rep.Graph.Positions))
	for key := range rep.Graph.Positions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		moves := make([]repertoire.Move, 0, len(rep.Graph.Positions[key].Moves))
		for _, m := range rep.Graph.Positions[key].Moves {
			moves = append(moves, *m)
		}
		doc.Positions = append(doc.Positions, positionDocument{Key: key, Moves: moves})
	}
	return doc
}

func fromDocument(doc repertoireDocument) repertoire.Repertoire {
	graph := &repertoire.Graph{
		StartingPositionKey: doc.StartingPositionKey,
		Color:               doc.Color,
		Positions:           make(map[string]*repertoire.Position, len(doc.Positions)),
	}
	for _, p := range doc.Positions {
		pos := &repertoire.Position{Moves: make([]*repertoire.Move, 0, len(p.Moves))}
		for i := range p.Moves {
			pos.Moves = append(pos.Moves, &p.Moves[i])
		}
		graph.Positions[repertoire.SanitizeKey(p.Key)] = pos
	}

	return repertoire.Repertoire{
		ID:        doc.ID,
		Name:      doc.Name,
		Color:     doc.Color,
		Graph:     graph,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
