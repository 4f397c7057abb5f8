package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
)

// SecretsAdapter resolves secrets from the environment first and then
// from Secret Manager. Failures are returned as ErrSecretError.
type SecretsAdapter struct {
	Logger *slog.Logger

	// access fetches a secret version payload. Nil means a real Secret
	// Manager client is created per call.
	access func(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error)
}

func (a *SecretsAdapter) GetSecret(ctx context.Context, projectID, secretName string) (string, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Local fallback
	if val := os.Getenv(secretName); val != "" {
		logger.Debug("Using local env var for secret", "secret", secretName)
		return val, nil
	}

	access := a.access
	if access == nil {
		access = accessSecretManager
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)
	payload, err := access(ctx, name)
	if err != nil {
		return "", apperrors.ErrSecretError.WithCause(err).
			WithMessage("failed to access secret version").
			WithMetadata("secret", secretName)
	}

	crc32c := crc32.MakeTable(crc32.Castagnoli)
	checksum := int64(crc32.Checksum(payload.Data, crc32c))
	if payload.DataCrc32C != nil && *payload.DataCrc32C != checksum {
		return "", apperrors.ErrSecretError.
			WithMessage("data corruption detected in secret").
			WithMetadata("secret", secretName)
	}

	return string(payload.Data), nil
}

func accessSecretManager(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secretmanager client: %w", err)
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return result.GetPayload(), nil
}
