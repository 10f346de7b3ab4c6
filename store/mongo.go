package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eebmagic/lagnuage-immersion-app/models"
)

// Mongo collection names.
const (
	vocabCollection   = "vocab"
	snippetCollection = "snippets"
	userCollection    = "users"
)

// MongoVocabStore implements VocabStore on a mongo collection.
type MongoVocabStore struct {
	coll *mongo.Collection
}

func NewMongoVocabStore(db *mongo.Database) *MongoVocabStore {
	return &MongoVocabStore{coll: db.Collection(vocabCollection)}
}

func (s *MongoVocabStore) FindByID(ctx context.Context, id string) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MongoVocabStore) FindReviewed(ctx context.Context) ([]models.VocabularyItem, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"rep_data.history_length": bson.M{"$gt": 0}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.VocabularyItem
	err = cursor.All(ctx, &out)
	return out, err
}

func (s *MongoVocabStore) FindByNextReview(ctx context.Context, limit int) ([]models.VocabularyItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rep_data.next_review", Value: 1}, {Key: "word_freq", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.VocabularyItem
	err = cursor.All(ctx, &out)
	return out, err
}

func (s *MongoVocabStore) UpdateReviewState(ctx context.Context, id string, state models.ReviewState) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"rep_data": state}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotModified
	}
	return nil
}

func (s *MongoVocabStore) InsertMany(ctx context.Context, items []models.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

func (s *MongoVocabStore) AddParents(ctx context.Context, id string, parents, samples []string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$addToSet": bson.M{
			"parents": bson.M{"$each": parents},
			"samples": bson.M{"$each": samples},
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVocabStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}

// MongoSnippetStore implements SnippetStore on a mongo collection.
type MongoSnippetStore struct {
	coll *mongo.Collection
}

func NewMongoSnippetStore(db *mongo.Database) *MongoSnippetStore {
	return &MongoSnippetStore{coll: db.Collection(snippetCollection)}
}

func (s *MongoSnippetStore) FindByID(ctx context.Context, id string) (*models.Snippet, error) {
	var snip models.Snippet
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&snip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snip, nil
}

func (s *MongoSnippetStore) FindByIDs(ctx context.Context, ids []string) ([]models.Snippet, error) {
	if len(ids) == 0 {
		return []models.Snippet{}, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Snippet
	err = cursor.All(ctx, &out)
	return out, err
}

func (s *MongoSnippetStore) FindBySourcePosition(ctx context.Context, sourcePath string, mediaIndex int) (*models.Snippet, error) {
	var snip models.Snippet
	err := s.coll.FindOne(ctx, bson.M{
		"source_path": sourcePath,
		"media_index": mediaIndex,
	}).Decode(&snip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snip, nil
}

func (s *MongoSnippetStore) InsertMany(ctx context.Context, snippets []models.Snippet) error {
	if len(snippets) == 0 {
		return nil
	}
	docs := make([]interface{}, len(snippets))
	for i := range snippets {
		docs[i] = snippets[i]
	}
	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

func (s *MongoSnippetStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}

// MongoUserStore implements UserStore on a mongo collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(userCollection)}
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.findOne(ctx, bson.M{"user_id": id})
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.UserProfile, error) {
	var user models.UserProfile
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.UserProfile) error {
	_, err := s.coll.InsertOne(ctx, user)
	return err
}

func (s *MongoUserStore) RawByID(ctx context.Context, id string) (map[string]any, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.M{"user_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// The _id is storage detail, not part of the document contract.
	delete(doc, "_id")
	return doc, nil
}

func (s *MongoUserStore) ReplaceByID(ctx context.Context, id string, doc map[string]any) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"user_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}
