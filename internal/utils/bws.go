package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/bitwarden/sdk-go"
)

// Retry parameters for Bitwarden API calls.
const (
	bwsMaxRetries     = 5
	bwsInitialBackoff = 500 * time.Millisecond
)

// BWSSecretsClient wraps an authenticated Bitwarden SDK client.
type BWSSecretsClient struct {
	bw    sdk.BitwardenClientInterface
	orgID string
}

// NewBWSSecretsClient logs in with BWS_ACCESS_TOKEN and scopes lookups to
// BWS_ORGANIZATION_ID. Login is retried with exponential backoff on 429s.
func NewBWSSecretsClient() (*BWSSecretsClient, error) {
	accessToken := strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN"))
	if accessToken == "" {
		return nil, errors.New("BWS_ACCESS_TOKEN env var is missing or empty")
	}
	orgID := strings.TrimSpace(os.Getenv("BWS_ORGANIZATION_ID"))
	if orgID == "" {
		return nil, errors.New("BWS_ORGANIZATION_ID env var is missing or empty")
	}

	bw, err := sdk.NewBitwardenClient(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("initialising Bitwarden SDK client: %w", err)
	}

	backoff := bwsInitialBackoff
	for attempt := 1; ; attempt++ {
		err = bw.AccessTokenLogin(accessToken, nil)
		if err == nil {
			return &BWSSecretsClient{bw: bw, orgID: orgID}, nil
		}

		// sdk-go has no typed status errors
		if !strings.Contains(err.Error(), "429") &&
			!strings.Contains(err.Error(), "Too Many Requests") {
			bw.Close()
			return nil, fmt.Errorf("Bitwarden access-token login failed: %w", err)
		}
		if attempt == bwsMaxRetries {
			bw.Close()
			return nil, fmt.Errorf("Bitwarden access-token login failed after %d attempts: %w", bwsMaxRetries, err)
		}

		Logger.WithField("attempt", attempt).Warn("Bitwarden rate limited login, backing off")
		time.Sleep(backoff)
		backoff *= 2
	}
}

// Close releases resources held by the underlying SDK client.
func (c *BWSSecretsClient) Close() {
	if c != nil && c.bw != nil {
		c.bw.Close()
	}
}

// GetBWSSecrets returns every key/value secret of the named project.
func (c *BWSSecretsClient) GetBWSSecrets(projectName string) (map[string]string, error) {
	if strings.TrimSpace(projectName) == "" {
		return nil, errors.New("projectName must not be empty")
	}

	projectsResp, err := c.bw.Projects().List(c.orgID)
	if err != nil {
		return nil, fmt.Errorf("listing Bitwarden projects: %w", err)
	}

	var projectID string
	for _, p := range projectsResp.Data {
		if strings.EqualFold(p.Name, projectName) {
			projectID = p.ID
			break
		}
	}
	if projectID == "" {
		return nil, fmt.Errorf("project %q not found in organisation %s", projectName, c.orgID)
	}

	syncResp, err := c.bw.Secrets().Sync(c.orgID, nil)
	if err != nil {
		return nil, fmt.Errorf("syncing Bitwarden secrets: %w", err)
	}

	out := make(map[string]string)
	for _, s := range syncResp.Secrets {
		if s.ProjectID != nil && *s.ProjectID == projectID {
			out[s.Key] = s.Value
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no secrets found for project %q", projectName)
	}
	return out, nil
}
