package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quill/database"
	"quill/models"
)

// BlogRepository defines the interface for blog data operations. The owned
// mutations take the asserted author as part of the match filter so the
// ownership check and the mutation happen as one atomic store operation.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	List(ctx context.Context) ([]models.BlogWithAuthor, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogWithAuthor, error)
	UpdateOwned(ctx context.Context, id, author primitive.ObjectID, patch models.BlogPatch) (*models.Blog, error)
	DeleteOwned(ctx context.Context, id, author primitive.ObjectID) (*models.Blog, error)
}

// blogRepository implements BlogRepository against MongoDB
type blogRepository struct {
	col *mongo.Collection
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *mongo.Database) BlogRepository {
	return &blogRepository{col: db.Collection(database.BlogsCollection)}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	now := time.Now()
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = now
	}
	if blog.UpdatedAt.IsZero() {
		blog.UpdatedAt = now
	}

	if _, err := r.col.InsertOne(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// authorLookup expands the author reference into the referenced user document.
func authorLookup() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.UsersCollection},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		bson.D{{Key: "$unwind", Value: "$author"}},
	}
}

func (r *blogRepository) List(ctx context.Context) ([]models.BlogWithAuthor, error) {
	cursor, err := r.col.Aggregate(ctx, authorLookup())
	if err != nil {
		return nil, err
	}

	blogs := []models.BlogWithAuthor{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetByID returns (nil, nil) when no blog matches.
func (r *blogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogWithAuthor, error) {
	pipeline := append(mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}, authorLookup()...)

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var blogs []models.BlogWithAuthor
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	if len(blogs) == 0 {
		return nil, nil
	}
	return &blogs[0], nil
}

// UpdateOwned atomically updates the blog matching both id and author and
// returns the updated document, or (nil, nil) when nothing matched. A wrong
// author and a missing id are indistinguishable here on purpose.
func (r *blogRepository) UpdateOwned(ctx context.Context, id, author primitive.ObjectID, patch models.BlogPatch) (*models.Blog, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Img != nil {
		set["img"] = *patch.Img
	}

	var blog models.Blog
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "author": author},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// DeleteOwned atomically deletes the blog matching both id and author and
// returns the deleted document, or (nil, nil) when nothing matched.
func (r *blogRepository) DeleteOwned(ctx context.Context, id, author primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "author": author}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}
