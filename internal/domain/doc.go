// Package domain holds the core model types, repository contracts, and
// sentinel errors shared by all layers. It has no dependencies on adapters
// (database, redis, http) so that the application layer can be tested with
// plain mocks.
package domain
