package common

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// NewAWSConfig builds the process-wide AWS client configuration. Called once
// at startup; the clients built from it hold no per-request state and are
// shared read-only across all sessions.
func NewAWSConfig(ctx context.Context, config *AWSConfig) (awssdk.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}

	// Static credentials are optional; without them the default credential
	// chain applies (instance profile, shared config, environment)
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, "")))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
