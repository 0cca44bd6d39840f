package submission

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/db"
)

// RemoteWriter appends a submission to the shared backing store and
// returns the key it was stored under.
type RemoteWriter interface {
	Push(ctx context.Context, c Collection, entry Entry) (string, error)
}

var errNoRemote = errors.New("no remote submission backend configured")

// RTDBWriter pushes submissions under submissions/<collection> in the
// Realtime Database.
type RTDBWriter struct {
	client *db.Client
}

func NewRTDBWriter(client *db.Client) *RTDBWriter {
	return &RTDBWriter{client: client}
}

func (w *RTDBWriter) Push(ctx context.Context, c Collection, entry Entry) (string, error) {
	if w == nil || w.client == nil {
		return "", errNoRemote
	}
	ref, err := w.client.NewRef(c.RemotePath()).Push(ctx, map[string]any(entry))
	if err != nil {
		return "", fmt.Errorf("push %s: %w", c.RemotePath(), err)
	}
	return ref.Key, nil
}

// FirestoreWriter adds submissions as documents of a collection named
// after the submission collection.
type FirestoreWriter struct {
	client *firestore.Client
}

func NewFirestoreWriter(client *firestore.Client) *FirestoreWriter {
	return &FirestoreWriter{client: client}
}

func (w *FirestoreWriter) Push(ctx context.Context, c Collection, entry Entry) (string, error) {
	if w == nil || w.client == nil {
		return "", errNoRemote
	}
	doc, _, err := w.client.Collection(string(c)).Add(ctx, map[string]any(entry))
	if err != nil {
		return "", fmt.Errorf("add %s document: %w", c, err)
	}
	return doc.ID, nil
}
