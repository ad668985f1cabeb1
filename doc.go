// Package outcome turns the result of an API operation into a wire-correct
// HTTP response.
//
// Every operation declares a closed set of outcomes in a [Registry]. Each
// [Contract] fixes the status code, the body schema, and the headers a
// result must or may carry:
//
//	reg := outcome.NewRegistry()
//	reg.MustRegister(outcome.Operation{
//	    Name:   "createGame",
//	    Method: http.MethodPost,
//	    Path:   "/games",
//	    Contracts: []outcome.Contract{
//	        {Tag: "Created", Status: 201, Body: outcome.BodyOf(Game{}),
//	            Headers: []outcome.HeaderRule{outcome.RequiredHeader("Location", outcome.HeaderString)}},
//	        outcome.ValidationFailedContract(),
//	    },
//	})
//
// Handlers return an [Outcome]. The [Dispatcher] matches it to its contract
// by tag and builds a [Response], or returns a fault when the handler broke
// the contract: an undeclared tag ([ErrUnknownOutcome]) or a missing
// required header ([ErrMissingRequiredHeader]). Faults are defects, never
// client errors; they are logged, recorded on the dispatch span, and turned
// into an opaque 500 by the [App].
//
// Rejections the handler chooses (not found, conflict, validation failure)
// are ordinary outcomes with their own contracts and flow through the same
// path.
package outcome
