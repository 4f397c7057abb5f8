package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	shared "github.com/Esteb4ncd/solace-server/pkg"
	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	storage "github.com/Esteb4ncd/solace-server/pkg/storage/firestore"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore.
//
// Layout:
//
//	users/{userId}                                progress_generation
//	users/{userId}/completions/{exerciseId}_{day} one document per exercise and day
//	executions/{executionId}
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) users() *firestore.CollectionRef {
	return a.Client.Collection(shared.CollectionUsers)
}

func (a *FirestoreAdapter) completions(userID string) *firestore.CollectionRef {
	return a.users().Doc(userID).Collection(shared.CollectionCompletions)
}

// --- Executions ---

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	_, err := a.Client.Collection(shared.CollectionExecutions).Doc(record.ExecutionID).Set(ctx, storage.ExecutionToFirestore(record))
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	_, err := a.Client.Collection(shared.CollectionExecutions).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

// --- Progress ---

func (a *FirestoreAdapter) GetProgress(ctx context.Context, userID string) (*progress.Snapshot, error) {
	snap := &progress.Snapshot{}

	userDoc, err := a.users().Doc(userID).Get(ctx)
	switch {
	case status.Code(err) == codes.NotFound:
		// New user: no generation yet
	case err != nil:
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	default:
		snap.Generation = storage.GenerationFromUser(userDoc.Data())
	}

	iter := a.completions(userID).OrderBy("completed_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list completions for %s: %w", userID, err)
		}
		snap.Completions = append(snap.Completions, storage.FirestoreToCompletion(doc.Data()))
	}
	return snap, nil
}

// AddCompletion uses Create so concurrent duplicates on the same day resolve
// to one winner.
func (a *FirestoreAdapter) AddCompletion(ctx context.Context, userID string, day progress.Day, c progress.CompletedExercise) (bool, error) {
	_, err := a.completions(userID).Doc(storage.CompletionDocID(c.ID, day)).Create(ctx, storage.CompletionToFirestore(c, day))
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create completion %s/%s: %w", userID, c.ID, err)
	}
	return true, nil
}

func (a *FirestoreAdapter) ResetProgress(ctx context.Context, userID string) (int64, error) {
	userRef := a.users().Doc(userID)
	var generation int64

	err := a.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		generation = 0
		userDoc, err := tx.Get(userRef)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			generation = storage.GenerationFromUser(userDoc.Data())
		}

		refs, err := tx.DocumentRefs(a.completions(userID)).GetAll()
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if err := tx.Delete(ref); err != nil {
				return err
			}
		}

		generation++
		return tx.Set(userRef, map[string]interface{}{
			"progress_generation": generation,
			"progress_reset_at":   firestore.ServerTimestamp,
		}, firestore.MergeAll)
	})
	if err != nil {
		return 0, fmt.Errorf("reset progress for %s: %w", userID, err)
	}
	return generation, nil
}
