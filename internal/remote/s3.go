package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// S3Args are parsed from the query arguments of an s3:// object URI,
// e.g. s3://bucket/key?profile=ml&region=us-east-1.
type S3Args struct {
	// AWS profile of the shared credentials file. Empty uses default credentials.
	Profile string `schema:"profile"`
	// Endpoint of an S3-compatible service. Empty uses AWS S3.
	Endpoint string `schema:"endpoint"`
	// Region of the bucket. Empty derives it from the profile.
	Region string `schema:"region"`
}

// S3 opens objects from S3 and S3-compatible stores. Clients are built
// lazily and shared between URIs with identical S3Args.
type S3 struct {
	mu      sync.Mutex
	clients map[S3Args]*s3.S3
}

// NewS3 returns an S3 client.
func NewS3() *S3 {
	return &S3{clients: make(map[S3Args]*s3.S3)}
}

// Open implements Client.
func (c *S3) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid S3 URI %q", uri)
	}
	var args S3Args
	if err := parseQueryArgs(u, &args); err != nil {
		return nil, err
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, errors.Errorf("invalid S3 URI %q: want s3://<bucket>/<key>", uri)
	}

	client, err := c.client(args)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get s3://%s/%s", bucket, key)
	}
	return resp.Body, nil
}

func (c *S3) client(args S3Args) (*s3.S3, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[args]; ok {
		return client, nil
	}

	var awsConfig = aws.NewConfig()
	awsConfig.WithCredentialsChainVerboseErrors(true)

	if args.Region != "" {
		awsConfig.WithRegion(args.Region)
	}
	if args.Endpoint != "" {
		awsConfig.WithEndpoint(args.Endpoint)
		// Bucket-named virtual hosts don't work with explicit endpoints.
		awsConfig.WithS3ForcePathStyle(true)
	} else {
		// Keep objects byte-exact: no transparent gzip decoding.
		awsConfig.WithHTTPClient(&http.Client{
			Transport: &http.Transport{DisableCompression: true},
		})
	}

	awsSession, err := session.NewSessionWithOptions(session.Options{
		Profile:           args.Profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "constructing S3 session")
	}

	log.WithFields(log.Fields{
		"endpoint": args.Endpoint,
		"profile":  args.Profile,
		"region":   args.Region,
	}).Info("constructed new aws.Session")

	client := s3.New(awsSession, awsConfig)
	c.clients[args] = client
	return client, nil
}

func parseQueryArgs(u *url.URL, args interface{}) error {
	var decoder = schema.NewDecoder()
	decoder.IgnoreUnknownKeys(false)

	if q, err := url.ParseQuery(u.RawQuery); err != nil {
		return errors.Wrapf(err, "parsing query of %s", u.Redacted())
	} else if err = decoder.Decode(args, q); err != nil {
		return errors.Wrapf(err, "parsing URI arguments of %s", u.Redacted())
	}
	return nil
}
