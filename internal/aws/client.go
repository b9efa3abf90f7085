package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when neither the export settings nor the profile
// name a region.
const DefaultRegion = "us-east-1"

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrInvalidProfile     = Error("invalid AWS profile")
	ErrNoBucket           = Error("no export bucket configured")
	ErrNoSuchBucket       = Error("export bucket does not exist")
)

func (e Error) Error() string {
	return string(e)
}

// ObjectPutter stores one object.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

// APIClient hands out S3 clients, one per profile and region.
type APIClient struct {
	config  *ClientConfig
	clients map[string]*s3.Client
	mx      sync.RWMutex
}

// NewAPIClient creates a new APIClient. An empty region falls back to the
// profile region, then to DefaultRegion.
func NewAPIClient(cfg *ClientConfig) (*APIClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	c := *cfg
	if c.Region == "" {
		c.Region = NewCredentialDiscovery().ProfileRegion(c.Profile)
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}

	return &APIClient{
		config:  &c,
		clients: make(map[string]*s3.Client),
	}, nil
}

// Config returns the client configuration.
func (c *APIClient) Config() *ClientConfig {
	c.mx.RLock()
	defer c.mx.RUnlock()
	cfg := *c.config
	return &cfg
}

// S3 returns the client of the active region.
func (c *APIClient) S3(ctx context.Context) (*s3.Client, error) {
	c.mx.RLock()
	profile, region := c.config.Profile, c.config.Region
	key := profile + ":" + region
	if cl, ok := c.clients[key]; ok {
		c.mx.RUnlock()
		return cl, nil
	}
	c.mx.RUnlock()

	c.mx.Lock()
	defer c.mx.Unlock()
	if cl, ok := c.clients[key]; ok {
		return cl, nil
	}
	cl, err := c.createClient(ctx, profile, region)
	if err != nil {
		return nil, err
	}
	c.clients[key] = cl

	return cl, nil
}

func (c *APIClient) createClient(ctx context.Context, profile, region string) (*s3.Client, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if profile != "" {
		if !NewCredentialDiscovery().HasProfile(profile) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, profile)
		}
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}

	return s3.NewFromConfig(cfg), nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "InvalidAccessKeyId", "InvalidClientTokenId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrNoSuchBucket, operation)
		case "SlowDown", "ThrottlingException":
			return fmt.Errorf("rate limited during %s: %w", operation, err)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
