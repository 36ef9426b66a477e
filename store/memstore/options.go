package memstore

import (
	assetcache "github.com/karupanerura/asset-cache"
	"github.com/karupanerura/asset-cache/internal/keyhash"
)

// DefaultBucketsSize is the default number of buckets in the store.
var DefaultBucketsSize = 256

// Option is the interface for the options of the in-memory asset store.
type Option[V assetcache.AssetConstraint] interface {
	apply(*options[V])
}

type optionFunc[V assetcache.AssetConstraint] func(*options[V])

func (f optionFunc[V]) apply(o *options[V]) {
	f(o)
}

// WithIDHash sets the identifier hash function used for bucket selection.
func WithIDHash[V assetcache.AssetConstraint](f func(string) int) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.hashID = f
	})
}

// WithBucketsSize sets the number of buckets in the store.
// The number of buckets must be a natural number.
func WithBucketsSize[V assetcache.AssetConstraint](bucketsSize int) Option[V] {
	if bucketsSize <= 0 {
		panic("bucketsSize must be natural number")
	}
	return optionFunc[V](func(o *options[V]) {
		o.bucketsSize = bucketsSize
	})
}

// WithCloner sets the asset cloner applied when assets enter and leave the
// store. The default is assetcache.NopAssetCloner, since decoded assets are
// conventionally shared by reference.
func WithCloner[V assetcache.AssetConstraint](cloner assetcache.AssetCloner[V]) Option[V] {
	return optionFunc[V](func(o *options[V]) {
		o.cloner = cloner
	})
}

type options[V assetcache.AssetConstraint] struct {
	hashID      func(string) int
	bucketsSize int
	cloner      assetcache.AssetCloner[V]
}

func defaultOptions[V assetcache.AssetConstraint]() options[V] {
	return options[V]{
		hashID:      keyhash.Sum,
		bucketsSize: DefaultBucketsSize,
		cloner:      assetcache.NopAssetCloner[V]{},
	}
}
