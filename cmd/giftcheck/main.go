package main

import (
	"flag"
	"fmt"
	"os"

	"gift-village/village"
)

func main() {
	seedPath := flag.String("seed", "data/village.yaml", "village seed file")
	characterID := flag.String("character", "", "character to ask (required)")
	giftID := flag.String("gift", "", "single gift to evaluate (default: whole catalog)")
	matchingOnly := flag.Bool("matching", false, "only list gifts that match the character's quest")
	flag.Parse()

	if err := run(*seedPath, *characterID, *giftID, *matchingOnly); err != nil {
		fmt.Fprintln(os.Stderr, "giftcheck:", err)
		os.Exit(1)
	}
}

func run(seedPath, characterID, giftID string, matchingOnly bool) error {
	if characterID == "" {
		return fmt.Errorf("-character is required")
	}
	seed, err := village.LoadSeed(seedPath)
	if err != nil {
		return err
	}
	rows, err := buildReport(seed, characterID, giftID, matchingOnly)
	if err != nil {
		return err
	}
	fmt.Print(renderReport(rows))
	return nil
}
