package assetcache

import "github.com/goccy/go-reflect"

// AssetCloner is an interface for cloning assets.
// A store may use it to hand out defensive copies so that one caller's
// mutation of a decoded asset is not observed by another.
type AssetCloner[V AssetConstraint] interface {
	CloneAsset(V) V
}

// AssetClonerFunc is a function type that implements the AssetCloner interface.
type AssetClonerFunc[V AssetConstraint] func(v V) V

// CloneAsset calls the function.
func (f AssetClonerFunc[V]) CloneAsset(v V) V {
	return f(v)
}

// NopAssetCloner is an asset cloner that does not clone.
// It is the right choice when assets are immutable or shared by reference,
// which is the common convention for decoded assets.
type NopAssetCloner[V AssetConstraint] struct{}

// CloneAsset returns the input asset unchanged.
func (NopAssetCloner[V]) CloneAsset(v V) V {
	return v
}

// DefaultAssetCloner returns a cloner for the given asset type.
// Types implementing Clone or DeepCopy are cloned through that method.
// Slices and maps, the usual shapes of decoded assets, are copied one level
// deep: growing or rewriting the original is not visible through a handed-out
// copy, while element values stay shared. Primitive types need no cloning.
// Any other type panics, because handing out a shared mutable asset from a
// store that promised copies is a bug.
func DefaultAssetCloner[V AssetConstraint]() AssetCloner[V] {
	var zero V
	return assetClonerOf[V](zero)
}

func assetClonerOf[V AssetConstraint](v any) AssetCloner[V] {
	type cloner interface {
		Clone() V
	}
	type deepCopier interface {
		DeepCopy() V
	}

	switch v.(type) {
	case cloner:
		return AssetClonerFunc[V](func(v V) V {
			var a any = v
			return a.(cloner).Clone()
		})

	case deepCopier:
		return AssetClonerFunc[V](func(v V) V {
			var a any = v
			return a.(deepCopier).DeepCopy()
		})

	default:
		return assetClonerReflect[V](reflect.ValueOf(v).Type())
	}
}

func assetClonerReflect[V AssetConstraint](typ reflect.Type) AssetCloner[V] {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.UnsafePointer:
		return NopAssetCloner[V]{}

	case reflect.Slice:
		return AssetClonerFunc[V](func(v V) V {
			rv := reflect.ValueOf(v)
			if rv.IsNil() {
				return v
			}
			copied := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
			reflect.Copy(copied, rv)
			return copied.Interface().(V)
		})

	case reflect.Map:
		return AssetClonerFunc[V](func(v V) V {
			rv := reflect.ValueOf(v)
			if rv.IsNil() {
				return v
			}
			copied := reflect.MakeMap(rv.Type())
			for _, key := range rv.MapKeys() {
				copied.SetMapIndex(key, rv.MapIndex(key))
			}
			return copied.Interface().(V)
		})

	default:
		panic("asset type does not have Clone or DeepCopy method")
	}
}
