// Package component defines the lifecycle contract for infrastructure
// components (database pools, caches, servers) and a registry that starts
// them in registration order, stops them in reverse, and aggregates health.
package component
