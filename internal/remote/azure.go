package remote

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Azure opens blobs from Azure Blob Storage.
//
// URIs have the form azure://<account>/<container>/<blob>. Storage accounts
// are the equivalent of an S3 bucket; containers live inside them.
type Azure struct {
	blobDomain string

	mu      sync.Mutex
	cred    azcore.TokenCredential
	clients map[string]*azblob.Client
}

// NewAzure returns an Azure client using azidentity's default credential chain.
func NewAzure() *Azure {
	return &Azure{
		blobDomain: "blob.core.windows.net",
		clients:    make(map[string]*azblob.Client),
	}
}

// Open implements Client.
func (c *Azure) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid Azure URI %q", uri)
	}
	container, blob, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if u.Host == "" || container == "" || blob == "" {
		return nil, errors.Errorf("invalid Azure URI %q: want azure://<account>/<container>/<blob>", uri)
	}

	client, err := c.accountClient(u.Host)
	if err != nil {
		return nil, err
	}
	resp, err := client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s/%s from account %s", container, blob, u.Host)
	}
	return resp.Body, nil
}

func (c *Azure) accountClient(account string) (*azblob.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[account]; ok {
		return client, nil
	}
	if c.cred == nil {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, errors.Wrap(err, "constructing Azure credential")
		}
		c.cred = cred
	}

	serviceURL := fmt.Sprintf("https://%s.%s/", account, c.blobDomain)
	client, err := azblob.NewClient(serviceURL, c.cred, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "constructing Azure client for %s", serviceURL)
	}
	log.WithField("serviceURL", serviceURL).Info("constructed new Azure blob client")

	c.clients[account] = client
	return client, nil
}
