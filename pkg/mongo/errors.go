package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrConnect        = errors.New("mongo: connect failed")
	ErrPingFailed     = errors.New("mongo: primary did not answer ping")
	ErrIndexMigration = errors.New("mongo: index migration failed")
)

// IsNoDocuments reports whether err means the query matched nothing.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
