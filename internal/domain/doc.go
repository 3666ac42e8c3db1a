// Package domain defines the core business types for the outreach CRM.
//
// Types in this package are value objects shared between the backend
// store client, the metrics pipeline, and the webhook delivery engine.
//
// Rules for this package:
//   - No imports from other internal/ packages except datanorm
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Pure helper methods on the types are allowed
package domain
