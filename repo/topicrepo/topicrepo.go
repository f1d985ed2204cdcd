//go:generate mockgen -destination mock_topicrepo/mock_topicrepo.go github.com/pushmesh/pushmesh/repo/topicrepo TopicRepo

package topicrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pushmesh/pushmesh/db"
	"github.com/pushmesh/pushmesh/domain"
)

const CName = "push.topicrepo"

const collName = "subscription"

func New() TopicRepo {
	return new(topicRepo)
}

// TopicRepo stores topic membership per registration token.
type TopicRepo interface {
	Subscribe(ctx context.Context, token domain.Token, topic domain.Topic) error
	Unsubscribe(ctx context.Context, token domain.Token, topic domain.Topic) error
	GetTokensByTopics(ctx context.Context, topics []domain.Topic) ([]domain.Token, error)
	GetTopicsByToken(ctx context.Context, token domain.Token) (topics []domain.Topic, err error)
	RemoveToken(ctx context.Context, token domain.Token) error
	app.ComponentRunnable
}

type topicRepo struct {
	coll *mongo.Collection
}

func (r *topicRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *topicRepo) Name() (name string) {
	return CName
}

func (r *topicRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "topics", Value: 1}},
	})
	return err
}

func (r *topicRepo) Subscribe(ctx context.Context, token domain.Token, topic domain.Topic) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateByID(
		ctx,
		token,
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: "topics", Value: topic}}},
			{Key: "$set", Value: bson.D{{Key: "updated", Value: time.Now().Unix()}}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "created", Value: time.Now().Unix()}}},
		},
		opts,
	)
	return err
}

func (r *topicRepo) Unsubscribe(ctx context.Context, token domain.Token, topic domain.Topic) error {
	_, err := r.coll.UpdateByID(
		ctx,
		token,
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "topics", Value: topic}}},
			{Key: "$set", Value: bson.D{{Key: "updated", Value: time.Now().Unix()}}},
		},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

type docId struct {
	Id domain.Token `bson:"_id"`
}

type withTopics struct {
	Topics []domain.Topic `bson:"topics"`
}

func (r *topicRepo) GetTokensByTopics(ctx context.Context, topics []domain.Topic) ([]domain.Token, error) {
	cur, err := r.coll.Find(ctx, bson.M{"topics": bson.M{"$in": topics}}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	var docs []docId
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	tokens := make([]domain.Token, len(docs))
	for i, d := range docs {
		tokens[i] = d.Id
	}
	return tokens, nil
}

func (r *topicRepo) GetTopicsByToken(ctx context.Context, token domain.Token) (topics []domain.Topic, err error) {
	var res withTopics
	err = r.coll.FindOne(ctx, bson.M{"_id": token}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return res.Topics, nil
}

func (r *topicRepo) RemoveToken(ctx context.Context, token domain.Token) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": token})
	return err
}

func (r *topicRepo) Close(ctx context.Context) error {
	return nil
}
