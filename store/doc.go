// Package store provides asset store adapters and utilities for the
// asset-cache library.
//
// This package contains FunctionsStore, which allows building custom store
// implementations using function callbacks. Concrete implementations live in
// subpackages: memstore holds assets in memory, and storetest provides
// reusable conformance tests for third-party implementations.
package store
