// Package handler contains the HTTP handlers of the Vermy API.
//
// Handlers parse the request, call a service and render the result. They
// depend on small interfaces rather than concrete services so each one can
// be tested against mocks.
//
// # Route Organization
//
//   - /health, /livez, /readyz, /version - probes (no auth)
//   - /api/auth/login - token issue (no auth)
//   - /api/* - everything else (bearer JWT)
//
// Every stored collection is served by a ResourceHandler with the same
// list, get, create, update, delete and restore routes.
//
// # Error Handling
//
// Errors are rendered as {"error": <title>, "message": <text>}. Application
// errors keep their status code; anything else becomes a 500 that is logged
// and reported to Sentry.
package handler
