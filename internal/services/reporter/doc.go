// Package reporter serves the civic complaint front-end: the report form, the
// status assistant, the public dashboard of resolved issues and the
// password-gated admin panel.
//
// Complaints live in an external complaints API; the reporter keeps only
// admin sessions and a triage audit log in a local SQLite database.
package reporter
