// Package provision installs cluster mappings for the fields written by the
// enrichment pipeline when new field configurations are saved.
//
// Provisioning is best effort: Provision always returns, within its timeout,
// and reports failures instead of raising them. Transient cluster failures
// are retried with exponential backoff.
package provision
