// Package secretsmanager provides a cachette.SecretSource implementation
// backed by AWS Secrets Manager.
package secretsmanager

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/evergreen-ci/cachette"
	"github.com/evergreen-ci/cachette/awsutil"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// AWS error codes that will not recover on their own, so requests that fail
// with them are not retried.
const (
	errCodeResourceNotFound = "ResourceNotFoundException"
	errCodeInvalidParameter = "InvalidParameterException"
	errCodeInvalidRequest   = "InvalidRequestException"
	errCodeAccessDenied     = "AccessDeniedException"
)

// BasicSource provides a cachette.SecretSource implementation that wraps the
// Secrets Manager API. It supports retrying requests using exponential
// backoff and jitter.
type BasicSource struct {
	sm   *secretsmanager.Client
	opts *awsutil.ClientOptions
}

// NewBasicSource creates a new source that resolves secrets against Secrets
// Manager using the given options.
func NewBasicSource(opts awsutil.ClientOptions) (*BasicSource, error) {
	s := &BasicSource{
		opts: &opts,
	}
	if err := s.opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}

	return s, nil
}

func (s *BasicSource) setup(ctx context.Context) error {
	if s.sm != nil {
		return nil
	}

	config, err := s.opts.GetConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "getting config")
	}

	s.sm = secretsmanager.NewFromConfig(*config)

	return nil
}

// GetValue returns the decrypted payload of the secret identified by ID.
func (s *BasicSource) GetValue(ctx context.Context, id string) (*cachette.Payload, error) {
	if err := s.setup(ctx); err != nil {
		return nil, errors.Wrap(err, "setting up client")
	}

	var out *secretsmanager.GetSecretValueOutput
	var err error
	msg := awsutil.MakeAPILogMessage("GetSecretValue", id)
	if err := utility.Retry(ctx,
		func() (bool, error) {
			out, err = s.sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
				SecretId: aws.String(id),
			})
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				grip.Debug(message.WrapError(apiErr, msg))
				switch apiErr.ErrorCode() {
				case errCodeResourceNotFound, errCodeInvalidParameter, errCodeInvalidRequest, errCodeAccessDenied:
					return false, err
				}
			}
			return true, err
		}, *s.opts.RetryOpts); err != nil {
		return nil, err
	}

	if out.SecretString == nil && out.SecretBinary == nil {
		return nil, errors.Errorf("secret '%s' has neither a string nor a binary value", id)
	}

	return &cachette.Payload{
		String: out.SecretString,
		Binary: out.SecretBinary,
	}, nil
}

// Close closes the source and cleans up its resources.
func (s *BasicSource) Close(ctx context.Context) error {
	s.opts.Close()
	return nil
}
