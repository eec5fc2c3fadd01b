// Package fabric is the REST client for the workspace/item/export API.
// All calls are single-shot; retry policy belongs to the executor that
// wraps them.
package fabric

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fabric-archiver/internal/domain"
	"fabric-archiver/internal/export"
	"fabric-archiver/internal/httpx"
)

const acceptJSON = "application/json"

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// Compress switches exported payloads to brotli (.br) files.
	Compress bool
}

func New(baseURL, token string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP: &http.Client{
			Timeout:   5 * time.Minute, // per-request; item payloads can be large
			Transport: tr,
		},
	}
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if c.Token == "" {
		return errors.New("fabric: missing API token")
	}
	return httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", acceptJSON)
		r.Header.Set("Authorization", "Bearer "+c.Token)
		return r, nil
	}, out)
}

func (c *Client) post(ctx context.Context, rawURL string, out any) error {
	if c.Token == "" {
		return errors.New("fabric: missing API token")
	}
	return httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", acceptJSON)
		r.Header.Set("Authorization", "Bearer "+c.Token)
		return r, nil
	}, out)
}

type workspacesPage struct {
	Value             []domain.Workspace `json:"value"`
	ContinuationToken string             `json:"continuationToken"`
}

// ListWorkspaces fetches the full workspace listing, following continuation
// tokens until the service stops returning one. The listing only contains
// workspaces the principal can reach; there is no inactive state on the wire.
func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	base, err := url.Parse(c.BaseURL + "/v1/workspaces")
	if err != nil {
		return nil, fmt.Errorf("fabric: invalid base url: %w", err)
	}

	var all []domain.Workspace
	token := ""
	for page := 1; ; page++ {
		u := *base
		if token != "" {
			q := u.Query()
			q.Set("continuationToken", token)
			u.RawQuery = q.Encode()
		}

		var out workspacesPage
		if err := c.get(ctx, u.String(), &out); err != nil {
			return nil, fmt.Errorf("fabric: list workspaces page=%d: %w", page, err)
		}

		all = append(all, out.Value...)
		if out.ContinuationToken == "" {
			return all, nil
		}
		token = out.ContinuationToken
	}
}

type itemsPage struct {
	Value             []domain.Item `json:"value"`
	ContinuationToken string        `json:"continuationToken"`
}

// ListItems fetches every item of one workspace, following continuation
// tokens.
func (c *Client) ListItems(ctx context.Context, workspaceID string) ([]domain.Item, error) {
	base, err := url.Parse(fmt.Sprintf("%s/v1/workspaces/%s/items", c.BaseURL, url.PathEscape(workspaceID)))
	if err != nil {
		return nil, fmt.Errorf("fabric: invalid base url: %w", err)
	}

	var all []domain.Item
	token := ""
	for page := 1; ; page++ {
		u := *base
		if token != "" {
			q := u.Query()
			q.Set("continuationToken", token)
			u.RawQuery = q.Encode()
		}

		var out itemsPage
		if err := c.get(ctx, u.String(), &out); err != nil {
			return nil, fmt.Errorf("fabric: list items workspace=%s page=%d: %w", workspaceID, page, err)
		}

		for i := range out.Value {
			// some API versions omit the back-reference on list responses
			if out.Value[i].WorkspaceID == "" {
				out.Value[i].WorkspaceID = workspaceID
			}
		}
		all = append(all, out.Value...)
		if out.ContinuationToken == "" {
			return all, nil
		}
		token = out.ContinuationToken
	}
}

type definitionResponse struct {
	Definition export.Definition `json:"definition"`
}

// ExportItem fetches an item's definition and writes it under
// destinationPath. One call, one item; the orchestrator owns parallelism
// and retries.
func (c *Client) ExportItem(ctx context.Context, workspaceID, itemID, destinationPath string) error {
	u := fmt.Sprintf("%s/v1/workspaces/%s/items/%s/getDefinition",
		c.BaseURL, url.PathEscape(workspaceID), url.PathEscape(itemID))

	var out definitionResponse
	if err := c.post(ctx, u, &out); err != nil {
		return fmt.Errorf("fabric: get definition workspace=%s item=%s: %w", workspaceID, itemID, err)
	}

	if len(out.Definition.Parts) == 0 {
		return fmt.Errorf("fabric: item %s/%s returned an empty definition", workspaceID, itemID)
	}

	return export.WriteDefinition(destinationPath, out.Definition, c.Compress)
}
