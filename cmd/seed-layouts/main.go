package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmatatu/cuesim/internal/auth"
	"github.com/playmatatu/cuesim/internal/config"
	"github.com/playmatatu/cuesim/internal/database"
	"github.com/playmatatu/cuesim/internal/layout"
)

// seed-layouts stores the built-in layout (and any layout files given as
// arguments) in the database. With -hash it prints a bcrypt hash for
// OPERATOR_PASSWORD instead.
func main() {
	hash := flag.Bool("hash", false, "print a bcrypt hash of $OPERATOR_PASSWORD and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-hash] [name=layout-file ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if *hash {
		password := os.Getenv("OPERATOR_PASSWORD")
		if password == "" {
			log.Fatal("OPERATOR_PASSWORD is not set")
		}
		h, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Printf("OPERATOR_PASSWORD_HASH=%s\n", h)
		return
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := database.NewLayoutStore(db)

	if err := store.Save(ctx, layout.DefaultName, layout.Default()); err != nil {
		log.Fatalf("Failed to save %q: %v", layout.DefaultName, err)
	}
	log.Printf("✓ Layout %q saved", layout.DefaultName)

	for _, arg := range flag.Args() {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			log.Fatalf("Bad argument %q, want name=layout-file", arg)
		}
		l, err := layout.Load(path)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		if _, err := l.Build(0); err != nil {
			log.Fatalf("Layout %s is not playable: %v", path, err)
		}
		if err := store.Save(ctx, name, l); err != nil {
			log.Fatalf("Failed to save %q: %v", name, err)
		}
		log.Printf("✓ Layout %q saved from %s", name, path)
	}
}
