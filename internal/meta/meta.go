// Package meta holds runtime metadata for routed endpoints.
// The type is internal so it cannot be instantiated by external packages,
// which allows us to seal the Endpoint interface.
package meta

import "reflect"

// EndpointMetadata describes one routed operation.
type EndpointMetadata struct {
	Operation string
	Method    string
	Path      string
	Request   reflect.Type
	Outcomes  []OutcomeMetadata
}

// OutcomeMetadata summarizes one declared outcome of an endpoint.
type OutcomeMetadata struct {
	Tag      string
	Status   int
	Body     string
	Required []string
	Optional []string
}
