// Package cli implements the interactive trove shell: a line-oriented REPL
// over the vault services. Command handlers print their own errors and never
// abort the loop; the shell stays usable whatever the backend is doing.
package cli
