package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fragment is one persisted piece of an illustrated story: the cover or a
// single scene, with its text and a reference to the stored image. Saved
// best-effort as artifacts are generated; one document per (user, story, key).
type Fragment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	StoryID   string    `bson:"story_id" json:"story_id"`
	Key       string    `bson:"key" json:"key"` // "cover" or "sceneN"
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	ImageKey  string    `bson:"image_key,omitempty" json:"image_key,omitempty"` // blob storage key
	Genre     string    `bson:"genre" json:"genre"`
	Tone      string    `bson:"tone" json:"tone"`
	Audience  string    `bson:"audience" json:"audience"`
	Seed      int64     `bson:"seed" json:"seed"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection returns the collection name
func (f *Fragment) Collection() string {
	return "story_fragments"
}

// EnsureIndexes creates the fragment indexes
func (f *Fragment) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(f.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				bson.E{Key: "user_id", Value: 1},
				bson.E{Key: "story_id", Value: 1},
				bson.E{Key: "key", Value: 1},
			},
			Options: options.Index().SetName("idx_user_story_key").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "story_id", Value: 1}, bson.E{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_story_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
