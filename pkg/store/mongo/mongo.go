// Package mongo implements the record store on MongoDB.
//
// Plots, trees, vegetation and progress live in collections of the same
// names. Observation and progress documents carry a plot_id field that
// list queries filter on.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "plotkit"

// Collection names.
const (
	CollectionPlots      = "plots"
	CollectionTrees      = "trees"
	CollectionVegetation = "vegetation"
	CollectionProgress   = "progress"
)

// Store is a MongoDB-backed record store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// progressDoc adds the record key as document id.
type progressDoc struct {
	Key                         string `bson:"_id"`
	survey.SamplingUnitProgress `bson:",inline"`
}

// Open connects to the deployment at uri and ensures the plot_id indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "mongo store needs a connection uri")
	}
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	for _, name := range []string{CollectionTrees, CollectionVegetation, CollectionProgress} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "plot_id", Value: 1}},
		})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("create %s index: %w", name, err)
		}
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// PutPlot inserts or replaces a plot.
func (s *Store) PutPlot(ctx context.Context, p survey.Plot) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.replace(ctx, CollectionPlots, p.ID, p)
}

// GetPlot returns the plot with the given id.
func (s *Store) GetPlot(ctx context.Context, id string) (survey.Plot, error) {
	var p survey.Plot
	err := s.db.Collection(CollectionPlots).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return survey.Plot{}, perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	if err != nil {
		return survey.Plot{}, fmt.Errorf("find plot %s: %w", id, err)
	}
	return p, nil
}

// ListPlots returns all plots ordered by creation time, then id.
func (s *Store) ListPlots(ctx context.Context) ([]survey.Plot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return find[survey.Plot](ctx, s.db.Collection(CollectionPlots), bson.M{}, opts)
}

// DeletePlot removes a plot and everything recorded against it.
func (s *Store) DeletePlot(ctx context.Context, id string) error {
	res, err := s.db.Collection(CollectionPlots).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plot %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	for _, name := range []string{CollectionTrees, CollectionVegetation, CollectionProgress} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{"plot_id": id}); err != nil {
			return fmt.Errorf("delete %s of plot %s: %w", name, id, err)
		}
	}
	return nil
}

// PutTree inserts or replaces a tree observation.
func (s *Store) PutTree(ctx context.Context, t ecology.TreeObservation) error {
	if err := perrors.ValidateID("observation id", t.ID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.requirePlot(ctx, t.PlotID); err != nil {
		return err
	}
	return s.replace(ctx, CollectionTrees, t.ID, t)
}

// ListTrees returns the trees of the given plots, or all trees.
func (s *Store) ListTrees(ctx context.Context, plotIDs ...string) ([]ecology.TreeObservation, error) {
	return find[ecology.TreeObservation](ctx, s.db.Collection(CollectionTrees), byPlot(plotIDs), observationOrder())
}

// PutVegetation inserts or replaces a vegetation observation.
func (s *Store) PutVegetation(ctx context.Context, v ecology.VegetationObservation) error {
	if err := perrors.ValidateID("observation id", v.ID); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.requirePlot(ctx, v.PlotID); err != nil {
		return err
	}
	return s.replace(ctx, CollectionVegetation, v.ID, v)
}

// ListVegetation returns the vegetation records of the given plots, or all.
func (s *Store) ListVegetation(ctx context.Context, plotIDs ...string) ([]ecology.VegetationObservation, error) {
	return find[ecology.VegetationObservation](ctx, s.db.Collection(CollectionVegetation), byPlot(plotIDs), observationOrder())
}

// PutProgress records the survey state of a sampling unit.
func (s *Store) PutProgress(ctx context.Context, p survey.SamplingUnitProgress) error {
	if !p.Status.Valid() {
		return perrors.New(perrors.ErrCodeInvalidInput, "unknown progress status %q", p.Status)
	}
	if err := s.requirePlot(ctx, p.PlotID); err != nil {
		return err
	}
	return s.replace(ctx, CollectionProgress, p.Key(), progressDoc{Key: p.Key(), SamplingUnitProgress: p})
}

// ListProgress returns the progress entries of a plot.
func (s *Store) ListProgress(ctx context.Context, plotID string) ([]survey.SamplingUnitProgress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sampling_unit_id", Value: 1}})
	docs, err := find[progressDoc](ctx, s.db.Collection(CollectionProgress), bson.M{"plot_id": plotID}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]survey.SamplingUnitProgress, len(docs))
	for i, d := range docs {
		out[i] = d.SamplingUnitProgress
	}
	return out, nil
}

func (s *Store) replace(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) requirePlot(ctx context.Context, id string) error {
	n, err := s.db.Collection(CollectionPlots).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count plot %s: %w", id, err)
	}
	if n == 0 {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	return nil
}

func byPlot(plotIDs []string) bson.M {
	if len(plotIDs) == 0 {
		return bson.M{}
	}
	return bson.M{"plot_id": bson.M{"$in": plotIDs}}
}

func observationOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "plot_id", Value: 1}, {Key: "_id", Value: 1}})
}

func find[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}
