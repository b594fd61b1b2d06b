package internal

import (
	"context"
	"fmt"
	"log"

	"cyberpay/config"
	"cyberpay/entity"
	"cyberpay/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog     = "payment_log"
	collectionResults = "payment_results"
)

// MongoDB persists log messages and validated payment outcomes. Connections
// are opened per call, the way short-lived service requests use them.
type MongoDB struct {
	clientOptions    *options.ClientOptions
	database         string
	logRecordsNumber int64
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions:    clientOptions,
		database:         conf.Mongo.Database,
		logRecordsNumber: conf.LogRecords,
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(ctx context.Context, connection *mongo.Client) {
	err := connection.Disconnect(ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	ctx := context.Background()
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionLog)
	if _, err = collection.InsertOne(ctx, data); err != nil {
		return err
	}
	m.trimLogRecords(ctx, collection)
	return nil
}

// trimLogRecords keeps the log collection within the configured record
// limit by dropping the oldest entries. A zero limit disables trimming.
func (m *MongoDB) trimLogRecords(ctx context.Context, collection *mongo.Collection) {
	if m.logRecordsNumber <= 0 {
		return
	}
	total, err := collection.CountDocuments(ctx, bson.D{})
	if err != nil || total <= m.logRecordsNumber {
		return
	}
	opt := options.Find().SetSort(bson.D{{Key: "time", Value: 1}}).SetLimit(total - m.logRecordsNumber)
	cursor, err := collection.Find(ctx, bson.D{}, opt)
	if err != nil {
		return
	}
	var ids []interface{}
	for cursor.Next(ctx) {
		var record bson.M
		if err = cursor.Decode(&record); err == nil {
			ids = append(ids, record["_id"])
		}
	}
	_ = cursor.Close(ctx)
	if len(ids) > 0 {
		_, _ = collection.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	}
}

// SavePaymentResult upserts a validated outcome keyed by transaction uuid,
// so a provider retry of the same callback overwrites rather than duplicates.
func (m *MongoDB) SavePaymentResult(ctx context.Context, outcome *entity.PaymentOutcome) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionResults)
	if outcome.TransactionUuid == "" {
		_, err = collection.InsertOne(ctx, outcome)
		return err
	}
	filter := bson.D{{Key: "transaction_uuid", Value: outcome.TransactionUuid}}
	set := bson.M{"$set": outcome}
	_, err = collection.UpdateOne(ctx, filter, set, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetPaymentResult(ctx context.Context, transactionUuid string) (*entity.PaymentOutcome, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(ctx, connection)

	collection := connection.Database(m.database).Collection(collectionResults)
	filter := bson.D{{Key: "transaction_uuid", Value: transactionUuid}}
	var outcome entity.PaymentOutcome
	if err = collection.FindOne(ctx, filter).Decode(&outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}
