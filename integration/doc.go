// Package integration holds end-to-end tests against file-backed stores.
// They are built with the integration tag; scripts/integration_test.sh runs
// them and cleans up the caches they use.
package integration
