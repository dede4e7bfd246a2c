// Package scripts holds the shell entry points of the repository and the
// tests that exercise them.
package scripts
