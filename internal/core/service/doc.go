// Package service provides the domain services for SyncSphere.
//
// RecoveryService and TransferService drive the phased progress
// simulations; DeviceService, UserService, and AuthService cover the
// account and device surfaces. Repository interfaces are defined here
// and satisfied by the storage package, so services are tested against
// in-memory fakes.
package service
