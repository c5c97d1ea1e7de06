package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/firebase"
)

func main() {
	uid := flag.String("uid", "", "target user id")
	email := flag.String("email", "", "target user email (instead of -uid)")
	revoke := flag.Bool("revoke", false, "remove the admin flag instead of granting it")
	flag.Parse()
	if *uid == "" && *email == "" {
		log.Fatal("uid or email is required: -uid=xxxxx | -email=a@b.com")
	}

	ctx := context.Background()
	cfg := config.Load()
	cfg.BlobDriver = "none"
	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	defer clients.Close()
	if clients.Firestore == nil {
		log.Fatalf("set-admin needs DOCSTORE_DRIVER=firestore")
	}

	users := user.NewRepo(docstore.NewFirestore(clients.Firestore))
	var u *user.User
	if *uid != "" {
		u, err = users.Get(ctx, *uid)
	} else {
		u, err = users.FindByEmail(ctx, *email)
	}
	if err != nil {
		log.Fatalf("lookup user: %v", err)
	}

	admin := !*revoke
	if err := users.Update(ctx, u.UserID, map[string]any{"isAdmin": admin}); err != nil {
		log.Fatalf("update user: %v", err)
	}
	if err := firebase.NewIdentity(clients.Auth).SetAdmin(ctx, u.UserID, admin); err != nil {
		log.Printf("warning: admin claim not set: %v", err)
	}

	fmt.Printf("ok: admin=%v for %s (%s)\n", admin, u.UserID, u.Email)
}
