// Package version reports the build identity of a prefetchkit binary.
//
// Version and the VCS fields can be stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/prefetchkit/version.Version=0.2.0" ./cmd/prefetch-demo
//
// Fields left empty are filled from the module build info when available.
package version
