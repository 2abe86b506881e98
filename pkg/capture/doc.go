// Package capture wires the space registry, request store, event bus, rate
// limiter and response configuration into the per-request capture pipeline.
//
// For every inbound call addressed to a space the Service:
//
//  1. derives the client IP from forwarding headers,
//  2. checks the space:ip rate-limit bucket and rejects with 429 when empty,
//  3. normalizes the call into a CapturedRequest,
//  4. appends it to the space's history, which publishes it to observers,
//  5. answers either {"id": ...} with 201, or the space's configured
//     response after its artificial delay.
//
// A rate-limited call never mutates any store.
package capture
