package main

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/medicalimaging"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"framegate/internal/config"
	"framegate/internal/imagestore"
	"framegate/internal/objectstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// clients bundles the AWS-backed adapters a command needs.
type clients struct {
	sets    *imagestore.AHI
	objects *objectstore.S3
}

func (c *commandContext) dialClients(ctx context.Context) (*clients, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Datastore.Region),
		awsconfig.WithRetryMaxAttempts(cfg.Timeouts.RetryMaxAttempts),
	)
	if err != nil {
		return nil, err
	}

	expiry := time.Duration(cfg.ObjectStore.PresignExpirySeconds) * time.Second
	return &clients{
		sets: imagestore.NewAHI(medicalimaging.NewFromConfig(awsCfg, func(o *medicalimaging.Options) {
			o.HTTPClient = transportClient(cfg.Timeouts.MetadataConnect)
		}), cfg.Datastore.DatastoreID),
		objects: objectstore.NewS3(s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.HTTPClient = transportClient(cfg.Timeouts.FrameConnect)
		}), cfg.ObjectStore.Bucket, objectstore.WithPresignExpiry(expiry)),
	}, nil
}

// transportClient builds an HTTP client whose dialer gives up on connection
// attempts after the configured number of seconds.
func transportClient(connectSeconds int) *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().WithDialerOptions(func(d *net.Dialer) {
		d.Timeout = time.Duration(connectSeconds) * time.Second
	})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
