package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *repo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.Email = strings.ToLower(user.Email)
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, errs.ErrEmailTaken
		}
		return model.User{}, mapErr(err)
	}
	return user, nil
}

func (r *repo) findUser(ctx context.Context, filter bson.M) (model.User, error) {
	var user model.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, mapErr(err)
	}
	return user, nil
}

func (r *repo) GetUser(ctx context.Context, id string) (model.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *repo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findUser(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *repo) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

func (r *repo) UpdateUser(ctx context.Context, id string, patch model.UserPatch, now time.Time) (model.User, error) {
	set := bson.M{"updatedAt": now}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	var user model.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, mapErr(err)
	}
	return user, nil
}
