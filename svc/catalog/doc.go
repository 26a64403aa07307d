// Package catalog holds the plan catalog: the purchasable plans and their
// feature entitlements.
//
// The catalog is read on every subscription and every order, and changes only
// when an administrator edits plans, so it is served from an immutable Snapshot
// swapped atomically by Refresh. Sources are the document store (MongoSource),
// a YAML seed file (YAMLSource) and a fixed list (StaticSource). With Redis
// configured, Invalidate broadcasts a refresh to every running process.
package catalog
