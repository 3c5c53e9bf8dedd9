// Package main is the entry point of AssocCMS, the public website and role
// based admin panel of a nonprofit association. The public pages and the
// JSON API are served by fiber; content, accounts and the audit trail are
// kept in a gorm database.
package main
