package mongostore

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type todoDocument struct {
	ID          string     `bson:"_id"`
	Owner       string     `bson:"_creator"`
	Text        string     `bson:"text"`
	Completed   bool       `bson:"completed"`
	CompletedAt *time.Time `bson:"completedAt"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func toTodoDocument(t *models.Todo) todoDocument {
	return todoDocument{
		ID:          t.ID,
		Owner:       t.OwnerID,
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d todoDocument) model() *models.Todo {
	return &models.Todo{
		ID:          d.ID,
		OwnerID:     d.Owner,
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ownedBy(ownerID, id string) bson.M {
	return bson.M{"_id": id, "_creator": ownerID}
}

type TodoRepository struct {
	coll *mongo.Collection
}

func NewTodoRepository(coll *mongo.Collection) *TodoRepository {
	return &TodoRepository{coll: coll}
}

func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "_creator", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("creator_created"),
	})
	return mapErr(err)
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	_, err := r.coll.InsertOne(ctx, toTodoDocument(todo))
	return mapErr(err)
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"_creator": ownerID}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	result := []*models.Todo{}
	for cur.Next(ctx) {
		var doc todoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr(err)
	}
	return result, nil
}

func (r *TodoRepository) Get(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	var doc todoDocument
	if err := r.coll.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	res, err := r.coll.UpdateOne(ctx, ownedBy(todo.OwnerID, todo.ID), bson.M{"$set": bson.M{
		"text":        todo.Text,
		"completed":   todo.Completed,
		"completedAt": todo.CompletedAt,
		"updatedAt":   todo.UpdatedAt,
	}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	var doc todoDocument
	if err := r.coll.FindOneAndDelete(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"_creator": ownerID})
	if err != nil {
		return 0, mapErr(err)
	}
	return res.DeletedCount, nil
}
