package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/auth"
)

// Prints the bcrypt hash of a password, ready for an ADMIN_n_PASSWORD_HASH variable.
func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: hash-password <password>")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("❌  Could not hash password: %v", err)
	}
	fmt.Println(hash)
}
