// Package cmd holds the binaries of the verification service.
//
// # Commands
//
// server: one of the two verification servers. Run one instance with
// --role=first and one with --role=other, each configured with the other's
// public key.
//
//	go run ./cmd/server --config=first.yaml
//	go run ./cmd/server --role=other --dimension=8 --peer-key=<hex>
package cmd
