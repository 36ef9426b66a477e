// Package loaders provides loader adapters and utilities for the asset-cache
// library.
//
// This package contains FunctionsLoader and MapLoader for building loaders
// without dedicated types, and LintLoader, a decorator that validates loader
// implementations against the assetcache.Loader contract.
package loaders
