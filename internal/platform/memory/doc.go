// Package memory provides in-process implementations of the store
// interfaces. They back the default server configuration and tests.
package memory
