package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Clients bundles the long-lived Firebase handles. They are created once in
// main and passed down explicitly; nothing in this package holds a global.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

func Connect(ctx context.Context, projectID, credentialsFile string) (*Clients, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize auth client: %w", err)
	}

	return &Clients{Firestore: store, Auth: authClient}, nil
}

func (c *Clients) Close() {
	if c != nil && c.Firestore != nil {
		c.Firestore.Close()
	}
}
