// Package redis provides the Redis-backed caching layer: a thin client
// wrapper, a read-through overlay cache in front of PostgreSQL, and a
// circuit breaker hook that sheds load when Redis misbehaves.
package redis
