package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/log"
)

// ErrNoDocument is returned by single-document lookups and updates whose
// filter matched nothing.
var ErrNoDocument = mongo.ErrNoDocuments

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Accounts    *mongo.Collection
		Users       *mongo.Collection
		Courses     *mongo.Collection
		TeamSets    *mongo.Collection
		Teams       *mongo.Collection
		TeamDatas   *mongo.Collection
		Assessments *mongo.Collection
		JiraBoards  *mongo.Collection
	}
}

var _ Interface = (*Store)(nil)

// NewStore connects to mongoURI, checks the deployment is reachable and
// returns a Store bound to dbName.
func NewStore(ctx context.Context, mongoURI, dbName string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	s := FromDatabase(client.Database(dbName))
	s.Client = client
	return s, nil
}

// FromDatabase binds a Store to an already connected database.
func FromDatabase(db *mongo.Database) *Store {
	s := &Store{
		Client:   db.Client(),
		Database: db,
	}
	s.Collections.Accounts = db.Collection("accounts")
	s.Collections.Users = db.Collection("users")
	s.Collections.Courses = db.Collection("courses")
	s.Collections.TeamSets = db.Collection("teamsets")
	s.Collections.Teams = db.Collection("teams")
	s.Collections.TeamDatas = db.Collection("teamdatas")
	s.Collections.Assessments = db.Collection("assessments")
	s.Collections.JiraBoards = db.Collection("jiraboards")
	return s
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		c      *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.Collections.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "identifier", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "enrolledCourses", Value: 1}}},
		}},
		{s.Collections.Accounts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "isApproved", Value: 1}}},
		}},
		{s.Collections.Courses, []mongo.IndexModel{
			{Keys: bson.D{{Key: "faculty", Value: 1}}},
			{Keys: bson.D{{Key: "TAs", Value: 1}}},
			{Keys: bson.D{{Key: "students", Value: 1}}},
		}},
		{s.Collections.TeamSets, []mongo.IndexModel{
			{Keys: bson.D{{Key: "course", Value: 1}, {Key: "name", Value: 1}}},
		}},
		{s.Collections.Teams, []mongo.IndexModel{
			{Keys: bson.D{{Key: "teamSet", Value: 1}, {Key: "number", Value: 1}}},
		}},
		{s.Collections.JiraBoards, []mongo.IndexModel{
			{Keys: bson.D{{Key: "jiraId", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}

	for _, idx := range indexes {
		names, err := idx.c.Indexes().CreateMany(ctx, idx.models)
		if err != nil {
			return fmt.Errorf("creating indexes on %s: %w", idx.c.Name(), err)
		}
		log.Logger.Debug("indexes ensured", zap.String("collection", idx.c.Name()), zap.Strings("names", names))
	}
	return nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// findOne decodes the single document matching filter into out.
func findOne(ctx context.Context, c *mongo.Collection, filter any, out any) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoDocument
		}
		return fmt.Errorf("finding in %s: %w", c.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any) ([]T, error) {
	cursor, err := c.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.Name(), err)
	}

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.Name(), err)
	}
	return results, nil
}

// replaceByID overwrites the document with the given id.
func replaceByID(ctx context.Context, c *mongo.Collection, id any, doc any) error {
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replacing in %s: %w", c.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
