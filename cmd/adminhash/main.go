// Command adminhash prints the bcrypt hash to put in ADMIN_PASSWORD_HASH.
// The password is read from the first line of stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"wahret-zmen/internal/service"
)

func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "usage: echo 'password' | adminhash")
		os.Exit(2)
	}

	password := strings.TrimRight(line, "\r\n")
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
