package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is a post as stored, with the author held as a reference to a User id.
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content,omitempty" json:"content"`
	Img       string             `bson:"img,omitempty" json:"img"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// BlogWithAuthor is a Blog with the author reference expanded into the
// referenced user's public fields, as returned by list and detail reads.
type BlogWithAuthor struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content,omitempty" json:"content"`
	Img       string             `bson:"img,omitempty" json:"img"`
	Author    User               `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// BlogPatch carries the updatable fields of a Blog. Nil fields are left
// untouched by an update.
type BlogPatch struct {
	Title   *string
	Content *string
	Img     *string
}
