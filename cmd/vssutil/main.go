// Command vssutil is a read-only command-line explorer for the
// internal/services and pkg/vss Volume Shadow Snapshot library.
package main

func main() {
	Execute()
}
