// Package ir defines the constrained value model used for event payloads.
//
// Every event published on the simulation bus carries an Object payload.
// Payloads are serialised with MarshalCanonical for the journal, golden
// trace files and content-addressed event IDs, so two runs of the same tick
// sequence produce byte-identical traces.
//
// Allowed values: String, Int, Bool, Array, Object. Floats are rejected:
// durations travel as integer milliseconds (see Millis).
package ir
