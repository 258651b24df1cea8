package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/credentials"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
	"github.com/your-org/storefront-backend/internal/pkg/email"
)

// Seeds a local-provider account into a snapshot store, for development
// against CREDENTIALS_PROVIDER=local.
func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: go run scripts/seed_user.go <snapshot.db> <email> <password>")
	}

	path, emailAddr, password := os.Args[1], os.Args[2], os.Args[3]

	logger := logrus.New()
	snap, err := snapshot.Open(path, logger)
	if err != nil {
		log.Fatal("Error opening snapshot store:", err)
	}
	defer snap.Close()

	mailer := email.NewService(config.EmailConfig{}, logger)
	creds := credentials.NewLocalService(snap, mailer, config.SecurityConfig{BcryptCost: 12}, logger)

	account, err := creds.SignUp(context.Background(), emailAddr, password)
	if err != nil {
		log.Fatal("Error creating account:", err)
	}

	fmt.Printf("Email: %s\n", account.Email)
	fmt.Printf("UID: %s\n", account.UID)

	if _, err := creds.SignIn(context.Background(), emailAddr, password); err != nil {
		log.Fatal("Sign-in verification failed:", err)
	}

	fmt.Println("Account verified successfully")
}
