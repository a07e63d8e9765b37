// Package domain defines the core domain models for SyncSphere.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. Persistence tags are the
// only concession to the storage layer.
package domain
