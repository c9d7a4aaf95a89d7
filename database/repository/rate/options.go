package rateRepo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func optionsSortByCreatedDesc() *options.FindOneOptions {
	return options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
