package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"gift-village/apps/server/internal/auth"
)

// adminkey prints a .env line with the bcrypt hash of an admin key. The key is read
// from -key or, if absent, the first line of stdin.
func main() {
	key := flag.String("key", "", "admin key to hash (default: read from stdin)")
	flag.Parse()

	raw := *key
	if raw == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "adminkey: no key given")
			os.Exit(1)
		}
		raw = line
	}

	hash, err := auth.HashKey(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintln(os.Stderr, "adminkey:", err)
		os.Exit(1)
	}
	fmt.Printf("CATALOG_ADMIN_KEY_HASH='%s'\n", hash)
}
