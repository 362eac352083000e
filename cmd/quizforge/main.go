// Command quizforge is a line-oriented terminal front end for the quiz API.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/mind-engage/quizforge/internal/client"
	"github.com/mind-engage/quizforge/internal/play"
)

func main() {
	api := flag.String("api", envOr("QUIZFORGE_API", "http://localhost:8080"), "quiz API base URL")
	user := flag.String("user", "", "admin username (guest login when empty)")
	pass := flag.String("pass", "", "admin password")
	flag.Parse()

	log.SetFlags(0)
	ctx := context.Background()

	c := client.New(*api)
	if *user != "" {
		if _, err := c.Login(ctx, *user, *pass); err != nil {
			log.Fatalf("login: %v", err)
		}
	} else if _, err := c.Guest(ctx); err != nil {
		log.Fatalf("guest login: %v", err)
	}

	u := &ui{
		api: c,
		ctl: play.New(c, nil),
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
	}
	if err := u.run(ctx); err != nil {
		log.Fatal(err)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
