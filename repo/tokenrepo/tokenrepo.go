//go:generate mockgen -destination mock_tokenrepo/mock_tokenrepo.go github.com/pushmesh/pushmesh/repo/tokenrepo TokenRepo

package tokenrepo

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pushmesh/pushmesh/db"
	"github.com/pushmesh/pushmesh/domain"
)

const CName = "push.tokenrepo"

const collName = "device"

func New() TokenRepo {
	return new(tokenRepo)
}

type TokenRepo interface {
	Register(ctx context.Context, device domain.Device) (err error)
	UpdateStatus(ctx context.Context, token domain.Token, status domain.TokenStatus) (err error)
	RemoveTokens(ctx context.Context, tokens []domain.Token) (err error)
	GetActiveDevices(ctx context.Context, tokens []domain.Token) (devices []domain.Device, err error)
	app.ComponentRunnable
}

type tokenRepo struct {
	coll *mongo.Collection
}

func (t *tokenRepo) Init(a *app.App) (err error) {
	t.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (t *tokenRepo) Name() (name string) {
	return CName
}

func (t *tokenRepo) Run(ctx context.Context) error {
	_, err := t.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}},
	})
	return err
}

func (t *tokenRepo) Register(ctx context.Context, device domain.Device) (err error) {
	opts := options.Update().SetUpsert(true)
	_, err = t.coll.UpdateByID(
		ctx,
		device.Token,
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "platform", Value: device.Platform},
				{Key: "status", Value: device.Status},
				{Key: "updated", Value: time.Now().Unix()},
			}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "created", Value: time.Now().Unix()}}},
		},
		opts,
	)
	return
}

func (t *tokenRepo) UpdateStatus(ctx context.Context, token domain.Token, status domain.TokenStatus) (err error) {
	_, err = t.coll.UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: token}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updated", Value: time.Now().Unix()},
		}}})
	return
}

func (t *tokenRepo) RemoveTokens(ctx context.Context, tokens []domain.Token) (err error) {
	_, err = t.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": tokens}})
	return
}

func (t *tokenRepo) GetActiveDevices(ctx context.Context, tokens []domain.Token) (devices []domain.Device, err error) {
	cur, err := t.coll.Find(ctx, bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: tokens}}},
		{Key: "status", Value: domain.TokenStatusValid},
	})
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &devices)
	return
}

func (t *tokenRepo) Close(ctx context.Context) (err error) {
	return nil
}
