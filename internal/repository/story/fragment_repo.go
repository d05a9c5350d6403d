package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/georgem7154/once-upon-a-prompt/internal/model/story"
	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/id"
)

// FragmentRepository is the persistence interface the orchestrator depends on
type FragmentRepository interface {
	Upsert(ctx context.Context, fragment *story.Fragment) error
	FindByStory(ctx context.Context, userID, storyID string) ([]*story.Fragment, error)
	FindByKey(ctx context.Context, userID, storyID, key string) (*story.Fragment, error)
	Delete(ctx context.Context, userID, storyID string) error
}

// FragmentRepo is the MongoDB implementation
type FragmentRepo struct {
	coll *mongo.Collection
}

// NewFragmentRepo creates the repository
func NewFragmentRepo(db *mongo.Database) *FragmentRepo {
	var f story.Fragment
	return &FragmentRepo{coll: db.Collection(f.Collection())}
}

// Upsert writes one fragment, replacing any previous record for the same
// (user, story, key). Re-running a story overwrites its earlier artifacts.
func (r *FragmentRepo) Upsert(ctx context.Context, fragment *story.Fragment) error {
	now := time.Now()
	if fragment.ID == "" {
		fragment.ID = id.New()
	}
	fragment.UpdatedAt = now

	filter := bson.M{
		"user_id":  fragment.UserID,
		"story_id": fragment.StoryID,
		"key":      fragment.Key,
	}
	update := bson.M{
		"$set": bson.M{
			"text":       fragment.Text,
			"image_key":  fragment.ImageKey,
			"genre":      fragment.Genre,
			"tone":       fragment.Tone,
			"audience":   fragment.Audience,
			"seed":       fragment.Seed,
			"updated_at": fragment.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":         fragment.ID,
			"user_id":    fragment.UserID,
			"story_id":   fragment.StoryID,
			"key":        fragment.Key,
			"created_at": now,
		},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// FindByStory returns every fragment of a story in insertion order
func (r *FragmentRepo) FindByStory(ctx context.Context, userID, storyID string) ([]*story.Fragment, error) {
	filter := bson.M{"user_id": userID, "story_id": storyID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var fragments []*story.Fragment
	if err := cur.All(ctx, &fragments); err != nil {
		return nil, err
	}
	return fragments, nil
}

// FindByKey returns one fragment
func (r *FragmentRepo) FindByKey(ctx context.Context, userID, storyID, key string) (*story.Fragment, error) {
	var fragment story.Fragment
	filter := bson.M{"user_id": userID, "story_id": storyID, "key": key}
	if err := r.coll.FindOne(ctx, filter).Decode(&fragment); err != nil {
		return nil, err
	}
	return &fragment, nil
}

// Delete removes all fragments of a story
func (r *FragmentRepo) Delete(ctx context.Context, userID, storyID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID, "story_id": storyID})
	return err
}
