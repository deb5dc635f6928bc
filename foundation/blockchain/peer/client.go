package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// baseURL is the format of the private API root on a peer.
const baseURL = "http://%s/v1/node"

// maxRetries bounds the attempts made against a peer that is failing with
// a transport error or a server side status.
const maxRetries = 2

// Client queries peers over their private API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient constructs a client where every request is bounded by the
// specified timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// retry runs the operation until it succeeds, fails permanently, the
// retries are used up or the context is done.
func retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx))
}

// QueryChain asks the peer for its full chain and reported length.
func (c *Client) QueryChain(ctx context.Context, pr Peer) (ChainStatus, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(c.baseURL, pr.Host))

	var cs ChainStatus
	if err := c.send(ctx, http.MethodGet, url, nil, &cs); err != nil {
		return ChainStatus{}, err
	}

	return cs, nil
}

// QueryStatus asks the peer for its current status.
func (c *Client) QueryStatus(ctx context.Context, pr Peer) (PeerStatus, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(c.baseURL, pr.Host))

	var ps PeerStatus
	if err := c.send(ctx, http.MethodGet, url, nil, &ps); err != nil {
		return PeerStatus{}, err
	}

	return ps, nil
}

// send is a helper function to send an HTTP request to a node. Transport
// errors and 5xx responses are retried, anything else fails at once.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var data []byte
	if dataSend != nil {
		var err error
		if data, err = json.Marshal(dataSend); err != nil {
			return err
		}
	}

	op := func() error {
		var body io.Reader
		if data != nil {
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if resp.StatusCode != http.StatusOK {
			msg, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			err = fmt.Errorf("status %d: %w", resp.StatusCode, errors.New(string(msg)))
			if resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}

		if dataRecv != nil {
			if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
				return backoff.Permanent(err)
			}
		}

		return nil
	}

	return retry(ctx, op)
}
