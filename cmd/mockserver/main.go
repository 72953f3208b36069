package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"stockyfy/internal/mockserver"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":3000", "listen address")
	dbPath := flag.String("db", "db.json", "path to the JSON database file")
	flag.Parse()

	store, err := mockserver.OpenFileStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database file: %v", err)
	}

	e := mockserver.NewServer(store)
	if err := e.Start(*addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
