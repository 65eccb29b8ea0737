package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/config"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/jwt"
)

// token issues an access token signed with JWT_SECRET_KEY. Login is handled
// outside this service.
func main() {
	userID := flag.Int64("user", 0, "user id placed in the user_id claim")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", string(user.RoleAccountant), "admin, accountant or employee")
	flag.Parse()

	if *userID <= 0 || !user.Role(*role).Valid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	tokens := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := tokens.GenerateAccessToken(*userID, *email, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
