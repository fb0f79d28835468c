package awsd

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"go.uber.org/zap"

	"stackforge/configuration"
	"stackforge/errors"
)

const (
	packageName = "awsd"
)

// Client wraps the EC2 and Auto Scaling service clients behind the
// narrow API interfaces, with retry settings from configuration
type Client struct {
	ec2        EC2API
	asg        AutoScalingAPI
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewClient builds a Client from the application configuration. When
// LOCALSTACK_URL is set, all calls are routed to LocalStack with static
// credentials for local development.
func NewClient(ctx context.Context, cfg *configuration.Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}

	if cfg.AcessKeyID != "" && cfg.AccessSecret != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AcessKeyID, cfg.AccessSecret, ""),
		))
	}

	if cfg.LocalstackURL != "" {
		endpoint := cfg.LocalstackURL
		opts = append(opts, config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "failed to load AWS configuration",
			map[string]interface{}{
				"region": cfg.AWSRegion,
			}, err)
	}

	return NewClientWithAPIs(ec2.NewFromConfig(awsCfg), autoscaling.NewFromConfig(awsCfg),
		cfg.MaxRetries, time.Duration(cfg.RetryDelay)*time.Second), nil
}

// NewClientWithAPIs wires explicit API implementations, used by tests
func NewClientWithAPIs(ec2API EC2API, asgAPI AutoScalingAPI, maxRetries int, retryDelay time.Duration) *Client {
	return &Client{
		ec2:        ec2API,
		asg:        asgAPI,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     zap.L().With(zap.String("package", packageName)),
	}
}
