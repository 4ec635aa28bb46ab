package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"google.golang.org/api/option"
)

// Options selects the credentials and project of the Firebase app
type Options struct {
	CredentialsPath string
	CredentialsJSON string
	ProjectID       string
	StorageBucket   string
}

// App holds the initialized Firebase app and the clients built from it
type App struct {
	FirebaseApp   *firebase.App
	AuthClient    *auth.Client
	Firestore     *firestore.Client
	Messaging     *messaging.Client
	Bucket        *gcs.BucketHandle
	StorageBucket string
}

// InitFirebase initializes the Firebase application and its clients
func InitFirebase(ctx context.Context, opts Options) (*App, error) {
	var cred option.ClientOption
	switch {
	case opts.CredentialsJSON != "":
		cred = option.WithCredentialsJSON([]byte(opts.CredentialsJSON))
	case opts.CredentialsPath != "":
		if _, err := os.Stat(opts.CredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials file not found at %s", opts.CredentialsPath)
		}
		cred = option.WithCredentialsFile(opts.CredentialsPath)
	default:
		return nil, fmt.Errorf("firebase credentials not provided")
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     opts.ProjectID,
		StorageBucket: opts.StorageBucket,
	}, cred)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		_ = firestoreClient.Close()
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	app := &App{
		FirebaseApp:   firebaseApp,
		AuthClient:    authClient,
		Firestore:     firestoreClient,
		Messaging:     messagingClient,
		StorageBucket: opts.StorageBucket,
	}

	if opts.StorageBucket != "" {
		storageClient, err := firebaseApp.Storage(ctx)
		if err != nil {
			_ = firestoreClient.Close()
			return nil, fmt.Errorf("error getting storage client: %w", err)
		}
		bucket, err := storageClient.Bucket(opts.StorageBucket)
		if err != nil {
			_ = firestoreClient.Close()
			return nil, fmt.Errorf("error opening bucket %s: %w", opts.StorageBucket, err)
		}
		app.Bucket = bucket
	}

	logging.Info().
		Str("project", opts.ProjectID).
		Bool("storage", app.Bucket != nil).
		Msg("Firebase app, auth, firestore and messaging clients initialized")
	return app, nil
}

// Close releases the Firestore connection
func (a *App) Close() error {
	if a.Firestore == nil {
		return nil
	}
	return a.Firestore.Close()
}
