// Package audit records administrative actions.
//
// GetChanges computes the field level difference between two snapshots of the
// same entity. Writer appends entries to a Store on a best effort basis:
// a failing store never fails the request that triggered the entry, the
// failure is logged and counted in audit_write_failures_total instead.
package audit
