package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

const secretsTimeout = 10 * time.Second

// SecretsAPI is the subset of the Secrets Manager client the keystore uses.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, in *secretsmanager.CreateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	PutSecretValue(ctx context.Context, in *secretsmanager.PutSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	DeleteSecret(ctx context.Context, in *secretsmanager.DeleteSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

// SecretsKeystore keeps keys in AWS Secrets Manager under prefix/<wallet name>.
type SecretsKeystore struct {
	client SecretsAPI
	prefix string
}

// NewSecretsKeystore wraps an existing client.
func NewSecretsKeystore(client SecretsAPI, prefix string) *SecretsKeystore {
	if prefix == "" {
		prefix = keychainService
	}
	return &SecretsKeystore{client: client, prefix: prefix}
}

// LoadSecretsKeystore builds a client from the default AWS credential chain.
func LoadSecretsKeystore(ctx context.Context, region, prefix string) (*SecretsKeystore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewSecretsKeystore(secretsmanager.NewFromConfig(cfg), prefix), nil
}

func (s *SecretsKeystore) Store(name, hexKey string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), secretsTimeout)
	defer cancel()

	ref := s.prefix + "/" + name
	value := aws.String(normaliseHexKey(hexKey))
	_, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(ref),
		SecretString: value,
	})
	var exists *types.ResourceExistsException
	if errors.As(err, &exists) {
		_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
			SecretId:     aws.String(ref),
			SecretString: value,
		})
	}
	if err != nil {
		return "", fmt.Errorf("secrets manager store: %w", err)
	}
	return ref, nil
}

func (s *SecretsKeystore) Retrieve(ref string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), secretsTimeout)
	defer cancel()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(ref)})
	if err != nil {
		return "", fmt.Errorf("secrets manager retrieve: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", ref)
	}
	return normaliseHexKey(aws.ToString(out.SecretString)), nil
}

func (s *SecretsKeystore) Delete(ref string) error {
	ctx, cancel := context.WithTimeout(context.Background(), secretsTimeout)
	defer cancel()

	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(ref),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	var missing *types.ResourceNotFoundException
	if err != nil && !errors.As(err, &missing) {
		return fmt.Errorf("secrets manager delete: %w", err)
	}
	return nil
}
