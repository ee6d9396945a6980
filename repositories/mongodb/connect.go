package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serverSelectionTimeout = 5 * time.Second

// Connect connects to the mongodb server holding the transaction records
// and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	timeout := serverSelectionTimeout
	opts := &options.ClientOptions{ServerSelectionTimeout: &timeout}

	client, err := mongo.Connect(ctx, opts.ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if pingErr := client.Ping(ctx, nil); pingErr != nil {
		return nil, pingErr
	}

	return client, nil
}
