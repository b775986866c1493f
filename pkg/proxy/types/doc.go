// Package types defines the JSON bodies of the inference HTTP API.
package types
