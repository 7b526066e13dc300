// Command keygen provisions a reporter API key. It prints the plaintext key
// once, for handing to the reporting backend, and the bcrypt hash to set as
// REPORTER_API_KEY_HASH on the server.
package main

import (
	"fmt"
	"os"

	"bitacora/internal/platform/secrets"
)

func main() {
	key, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}
	hash, err := secrets.Hash(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("api key:  %s\n", key)
	fmt.Printf("key hash: %s\n", hash)
}
