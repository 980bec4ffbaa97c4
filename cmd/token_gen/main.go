// Command token_gen prints a bearer token for local use. The user is given
// by id, or by email; -create adds a missing email as a new account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/config"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db"
	"larpilot/backoffice/internal/db/repositories"
	models "larpilot/backoffice/internal/models/gorm"
)

func main() {
	userID := flag.String("user", "", "user id to issue the token for")
	email := flag.String("email", "", "look the user up by email instead of id")
	create := flag.Bool("create", false, "create the user when -email is unknown")
	status := flag.String("status", string(constants.AccountPending), "status of a created user")
	flag.Parse()

	if (*userID == "") == (*email == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -user or -email is required")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("token_gen refuses to run with APP_ENV=production")
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("issuer: %v", err)
	}

	subject := *userID
	if *email != "" {
		subject, err = resolveEmail(cfg, *email, *create, *status)
		if err != nil {
			log.Fatalf("user %s: %v", *email, err)
		}
	}

	token, err := issuer.Issue(subject)
	if err != nil {
		log.Fatalf("issue: %v", err)
	}
	fmt.Println(token)
}

func resolveEmail(cfg *config.Config, email string, create bool, status string) (string, error) {
	orm, err := db.InitORM(cfg)
	if err != nil {
		return "", err
	}
	if err := db.AutoMigrate(orm); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserGormRepository(orm)
	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user.ID, nil
	}
	if !create || !apperr.Is(err, apperr.CodeNotFound) {
		return "", err
	}

	accountStatus, err := constants.ParseAccountStatus(status)
	if err != nil {
		return "", err
	}
	user = &models.User{Email: email, DisplayName: email, Status: accountStatus}
	if err := users.Create(ctx, user); err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "created user %s (%s)\n", user.ID, user.Status)
	return user.ID, nil
}
