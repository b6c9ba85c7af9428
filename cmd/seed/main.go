// Seeds the users collection with bootstrap accounts so the service has
// someone to log in as. Existing ids are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bazaar/internal/config"
	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
	"bazaar/internal/repository"
	"bazaar/internal/store"
)

func main() {
	users := flag.String("users", "", "comma-separated id:secret pairs to create, e.g. alice:pass1,bob:pass2")
	list := flag.Bool("list", false, "list existing user ids and exit")
	flag.Parse()

	cfg := config.Load()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	repo := repository.NewUserRepository(st)
	ctx := context.Background()

	if *list {
		existing, err := repo.List(ctx)
		if err != nil {
			log.Fatalf("list users: %v", err)
		}
		for _, u := range existing {
			fmt.Println(u.ID)
		}
		return
	}

	if *users == "" {
		log.Fatal("nothing to do: pass -users id:secret[,id:secret...] or -list")
	}

	created, skipped := 0, 0
	for _, pair := range strings.Split(*users, ",") {
		id, secret, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || id == "" || secret == "" {
			log.Fatalf("malformed pair %q, want id:secret", pair)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash secret for %s: %v", id, err)
		}
		err = repo.Create(ctx, &model.User{ID: id, Secret: string(hashed)})
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				log.Printf("user %s already exists, skipping", id)
				skipped++
				continue
			}
			log.Fatalf("create user %s: %v", id, err)
		}
		created++
	}
	log.Printf("Seed complete: %d created, %d skipped", created, skipped)
}
