// Package lib holds building blocks that do not belong to a single layer.
//
// It contains the worker pool and single-assignment futures used for
// deferred results (lib/async) and the bounded producer/consumer channel
// used for streamed responses (lib/stream).
package lib
