// Command token prints the auth token expected for a login/account pair, so
// the API can be exercised with curl. With -admin it prints the token valid
// for the current UTC hour.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ildarkit/hw3/internal/config"
	"github.com/ildarkit/hw3/internal/method"
)

func main() {
	admin := flag.Bool("admin", false, "print the admin token for the current hour")
	account := flag.String("account", "", "account name")
	login := flag.String("login", "", "login name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *admin {
		auth := method.NewAuthenticator(cfg.Auth.Salt, cfg.Auth.AdminSalt)
		fmt.Println(auth.AdminToken())
		return
	}

	if *login == "" {
		fmt.Fprintln(os.Stderr, "either -admin or -login is required")
		os.Exit(2)
	}
	fmt.Println(method.Token(*account, *login, cfg.Auth.Salt))
}
