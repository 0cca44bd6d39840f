package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/greenroots/greenroots-backend/config"
)

var (
	FirebaseApp     *firebase.App
	DatabaseClient  *db.Client
	FirestoreClient *firestore.Client
	once            sync.Once
	initErr         error
)

// InitFirebase initializes the Firebase Admin SDK plus the Realtime Database
// and Firestore clients (singleton pattern)
func InitFirebase(cfg *config.Config) error {
	once.Do(func() {
		ctx := context.Background()
		log.Println("🔄 Initializing Firebase...")

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = cfg.FirebaseCredentialsPath
		}

		log.Printf("📂 Looking for Firebase credentials at: %s - FIREBASE_PROJECT_ID=%s",
			credentialsPath, cfg.FirebaseProjectID)

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Printf("⚠️  Firebase credentials file not found at: %s", credentialsPath)
			initErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		if cfg.FirebaseDatabaseURL == "" {
			log.Println("⚠️  FIREBASE_DATABASE_URL not set - Realtime Database will not work")
			initErr = fmt.Errorf("FIREBASE_DATABASE_URL is required for the Realtime Database")
			return
		}

		fbConfig := &firebase.Config{
			ProjectID:   cfg.FirebaseProjectID,
			DatabaseURL: cfg.FirebaseDatabaseURL,
		}

		app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(credentialsPath))
		if err != nil {
			log.Printf("❌ Error initializing Firebase app: %v", err)
			initErr = fmt.Errorf("firebase app initialization failed: %v", err)
			return
		}
		FirebaseApp = app
		log.Printf("✅ Firebase app initialized for project: %s", cfg.FirebaseProjectID)

		dbClient, err := app.Database(ctx)
		if err != nil {
			log.Printf("❌ Error getting Realtime Database client: %v", err)
			initErr = fmt.Errorf("realtime database client initialization failed: %v", err)
			return
		}
		DatabaseClient = dbClient
		log.Println("✅ Realtime Database client initialized")

		// Firestore is optional; it only backs submissions when SUBMISSION_BACKEND=firestore
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			log.Printf("⚠️ Firestore client unavailable: %v", err)
			return
		}
		FirestoreClient = fsClient
		log.Println("✅ Firestore client initialized")
	})

	return initErr
}

// GetDatabaseClient returns the Realtime Database client, nil when Firebase is unavailable
func GetDatabaseClient() *db.Client {
	return DatabaseClient
}

// GetFirestoreClient returns the Firestore client, nil when unavailable
func GetFirestoreClient() *firestore.Client {
	return FirestoreClient
}

// CloseFirebase releases the Firestore connection
func CloseFirebase() {
	if FirestoreClient != nil {
		if err := FirestoreClient.Close(); err != nil {
			log.Printf("⚠️ Firestore close failed: %v", err)
		}
	}
}
