// Package publish stores a built catalog in MongoDB, one document per
// project keyed by the project id.
package publish

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/httputil"
)

// DefaultCollection holds the project documents.
const DefaultCollection = "projects"

// Writes failing with a network or timeout error are retried.
const (
	writeAttempts   = 3
	writeRetryDelay = 500 * time.Millisecond
)

// Collection is the subset of *mongo.Collection used by the publisher.
type Collection interface {
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Options controls a publish.
type Options struct {
	// RunID is stored on every document written.
	RunID string

	// Prune deletes documents of projects missing from the catalog.
	Prune bool
}

// Result counts the documents touched by a publish.
type Result struct {
	Inserted int
	Updated  int
	Deleted  int
}

// projectDocument is the stored form of a project.
type projectDocument struct {
	catalog.Project `bson:",inline"`
	PublishedAt     time.Time `bson:"published_at"`
	RunID           string    `bson:"run_id,omitempty"`
}

// Publisher upserts catalog projects into a collection.
type Publisher struct {
	coll       Collection
	logger     *log.Logger
	now        func() time.Time
	retryDelay time.Duration
}

// New creates a publisher over coll.
func New(coll Collection, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{coll: coll, logger: logger, now: time.Now, retryDelay: writeRetryDelay}
}

// Connect opens a MongoDB client, checks it with a ping and returns a
// publisher over the projects collection of database. Call the returned
// close function when done.
func Connect(ctx context.Context, uri, database string, logger *log.Logger) (*Publisher, func(context.Context) error, error) {
	if uri == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "mongo_uri is not set")
	}
	if database == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "mongo_database is not set")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(DefaultCollection)
	return New(coll, logger), client.Disconnect, nil
}

// Publish writes every project of cat. Projects should be sorted first so
// the stored release lists are ordered.
func (p *Publisher) Publish(ctx context.Context, cat *catalog.Catalog, opts Options) (Result, error) {
	var res Result
	now := p.now().UTC()
	ids := cat.ProjectIDs()

	for _, id := range ids {
		project, _ := cat.Project(id)
		doc := projectDocument{Project: *project, PublishedAt: now, RunID: opts.RunID}

		var out *mongo.UpdateResult
		err := httputil.Retry(ctx, writeAttempts, p.retryDelay, func() error {
			var err error
			out, err = p.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
			if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
				p.logger.Debug("retrying project write", "project", id, "error", err)
				return httputil.Retryable(err)
			}
			return err
		})
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeNetwork, err, "publish project %s", id)
		}
		if out.UpsertedCount > 0 {
			res.Inserted++
		} else {
			res.Updated++
		}
		p.logger.Debug("published project", "project", id, "releases", len(project.SortedReleases))
	}

	if opts.Prune {
		out, err := p.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeNetwork, err, "prune projects")
		}
		res.Deleted = int(out.DeletedCount)
	}

	p.logger.Info("published catalog",
		"inserted", res.Inserted,
		"updated", res.Updated,
		"deleted", res.Deleted)
	return res, nil
}
