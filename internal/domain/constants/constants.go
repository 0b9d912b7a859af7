// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider selection for lifecycle event publishing.
const (
	// PubSubProviderGoogle publishes to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
	// PubSubProviderLocal publishes to a local HTTP endpoint for development.
	PubSubProviderLocal = "local"
)
