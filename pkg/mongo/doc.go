// Package mongo connects to the document store and holds the helpers shared by
// every mongo-backed repository: index migration, soft-delete filtering and
// error classification.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := mongo.EnsureIndexes(ctx, db, mongo.Merge(couponIndexes, invoiceIndexes)); err != nil {
//		return err
//	}
//
// Reads of soft-deletable collections wrap their filters with Active so that
// records with is_active=false never leave the store layer.
package mongo
