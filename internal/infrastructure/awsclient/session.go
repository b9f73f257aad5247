// Package awsclient builds the shared AWS session used by the Rekognition,
// Translate and Polly backends.
package awsclient

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/shelfie/shelfie/internal/infrastructure/config"
)

// NewSession creates a session from explicit keys when configured, otherwise
// from the default credential chain (env, shared config, instance role).
func NewSession(cfg config.AWSConfig) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	// Fail at startup rather than on the first request when no credentials resolve.
	if _, err := sess.Config.Credentials.Get(); err != nil {
		return nil, fmt.Errorf("no AWS credentials available: %w", err)
	}

	return sess, nil
}
