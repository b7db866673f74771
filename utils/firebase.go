package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuthInit builds the Admin SDK auth client used to verify ID
// tokens. An empty credentialsFile returns nil, nil and token verification
// is skipped.
func FirebaseAuthInit(ctx context.Context, credentialsFile string) (*auth.Client, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	opt := option.WithCredentialsFile(credentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return client, nil
}
