// Command promote_admin edits an account directly in postgres: global role,
// account status and plan. It is the way to bootstrap the first super admin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"larpilot/backoffice/internal/config"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db"
	"larpilot/backoffice/internal/db/repositories"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	role := flag.String("role", "SUPER_ADMIN", "global role to set: SUPER_ADMIN or NONE")
	status := flag.String("status", "", "optional account status to set")
	plan := flag.String("plan", "", "optional plan name to assign; \"free\" clears the plan")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		log.Fatalf("promote_admin needs DB_DRIVER=postgres, got %q", cfg.DBDriver)
	}

	conn, err := db.InitPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := repositories.NewAccountRepository(conn)
	account, err := accounts.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("find %s: %v", *email, err)
	}

	globalRole := constants.GlobalRoleNone
	if *role != "NONE" {
		if globalRole, err = constants.ParseGlobalRole(*role); err != nil {
			log.Fatalf("role: %v", err)
		}
	}
	if err := accounts.SetGlobalRole(ctx, account.ID, globalRole); err != nil {
		log.Fatalf("set role: %v", err)
	}

	if *status != "" {
		accountStatus, err := constants.ParseAccountStatus(*status)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		if err := accounts.SetStatus(ctx, account.ID, accountStatus); err != nil {
			log.Fatalf("set status: %v", err)
		}
	}

	switch *plan {
	case "":
	case "free":
		if err := accounts.SetPlan(ctx, account.ID, nil); err != nil {
			log.Fatalf("clear plan: %v", err)
		}
	default:
		planID, err := accounts.FindPlanIDByName(ctx, *plan)
		if err != nil {
			log.Fatalf("plan %s: %v", *plan, err)
		}
		if err := accounts.SetPlan(ctx, account.ID, &planID); err != nil {
			log.Fatalf("set plan: %v", err)
		}
	}

	fmt.Printf("Updated %s (%s): role=%q status=%q plan=%q\n", account.Email, account.ID, globalRole, *status, *plan)
}
