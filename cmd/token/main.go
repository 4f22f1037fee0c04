// Command token mints a caller JWT for operating the ledger API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"raccoon_ledger/internal/http/middleware"

	"github.com/joho/godotenv"
)

func main() {
	callerID := flag.Int64("caller", 0, "caller identity to embed in the token")
	flag.Parse()

	if *callerID == 0 {
		log.Fatal("-caller is required")
	}

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	middleware.InitJWT(secret)
	token, err := middleware.GenerateJWT(*callerID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
