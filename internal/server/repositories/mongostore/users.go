package mongostore

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tokenDocument struct {
	Access    string    `bson:"access"`
	Token     string    `bson:"token"`
	CreatedAt time.Time `bson:"createdAt"`
}

type userDocument struct {
	ID        string          `bson:"_id"`
	Email     string          `bson:"email"`
	Password  string          `bson:"password"`
	Tokens    []tokenDocument `bson:"tokens"`
	CreatedAt time.Time       `bson:"createdAt"`
}

func toUserDocument(u *models.User) userDocument {
	doc := userDocument{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Tokens:    make([]tokenDocument, 0, len(u.Sessions)),
		CreatedAt: u.CreatedAt,
	}
	for _, s := range u.Sessions {
		doc.Tokens = append(doc.Tokens, tokenDocument{Access: s.Purpose, Token: s.Token, CreatedAt: s.CreatedAt})
	}
	return doc
}

func (d userDocument) model() *models.User {
	u := &models.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
	for _, t := range d.Tokens {
		u.Sessions = append(u.Sessions, models.Session{Purpose: t.Access, Token: t.Token, CreatedAt: t.CreatedAt})
	}
	return u
}

// sessionUpdate builds the update document that removes sessions matching f.
// An empty filter clears the whole array.
func sessionUpdate(f models.SessionFilter) bson.M {
	if f.Token == "" && f.Purpose == "" {
		return bson.M{"$set": bson.M{"tokens": bson.A{}}}
	}
	cond := bson.M{}
	if f.Token != "" {
		cond["token"] = f.Token
	}
	if f.Purpose != "" {
		cond["access"] = f.Purpose
	}
	return bson.M{"$pull": bson.M{"tokens": cond}}
}

// addSessionFilter matches the user only while token is not yet stored, so
// re-adding a session leaves the array unchanged.
func addSessionFilter(userID, token string) bson.M {
	return bson.M{"_id": userID, "tokens.token": bson.M{"$ne": token}}
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return mapErr(err)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *UserRepository) AddSession(ctx context.Context, userID string, session models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.UpdateOne(ctx,
		addSessionFilter(userID, session.Token),
		bson.M{"$push": bson.M{"tokens": tokenDocument{Access: session.Purpose, Token: session.Token, CreatedAt: session.CreatedAt}}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// nothing matched: either the user is gone or the token is already stored
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *UserRepository) RemoveSession(ctx context.Context, userID string, filter models.SessionFilter) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, sessionUpdate(filter))
	return mapErr(err)
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
