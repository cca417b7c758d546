package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jisooooooooooo/sportus/internal/store"
)

const tokenUsage = `Usage:
  sportus token set <token>   Store the access token sent as Authorization: Bearer
  sportus token show          Print the stored token, masked
  sportus token clear         Remove the stored token
`

func runToken() {
	if len(os.Args) < 2 {
		fmt.Print(tokenUsage)
		os.Exit(1)
	}

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()
	ctx := context.Background()

	switch os.Args[1] {
	case "set":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: token value required")
			fmt.Print(tokenUsage)
			os.Exit(1)
		}
		if err := st.SetAccessToken(ctx, os.Args[2]); err != nil {
			fatal(err)
		}
		fmt.Println("token stored")

	case "show":
		token, err := st.AccessToken(ctx)
		if errors.Is(err, store.ErrNoToken) {
			fmt.Println("no token stored")
			return
		}
		if err != nil {
			fatal(err)
		}
		fmt.Println(maskToken(token))

	case "clear":
		if err := st.ClearAccessToken(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("token cleared")

	case "-h", "--help", "help":
		fmt.Print(tokenUsage)

	default:
		fmt.Fprintf(os.Stderr, "sportus token: unknown command %q\n\n", os.Args[1])
		fmt.Print(tokenUsage)
		os.Exit(1)
	}
}

// maskToken keeps the first and last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
