package workflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/ringods/projen-pulumi/pkg/gitutil"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var resolverLog = logger.New("workflow:action_resolver")

const resolveTimeout = 20 * time.Second

// RESTClient is the part of the go-gh REST client the resolver uses.
type RESTClient interface {
	DoWithContext(ctx context.Context, method string, path string, body io.Reader, response interface{}) error
}

// ActionResolver resolves action tags to commit SHAs through the GitHub API,
// consulting the lock file cache first.
type ActionResolver struct {
	cache  *ActionCache
	client RESTClient
}

// NewActionResolver creates a resolver. A nil client is replaced by the
// default go-gh REST client on first use, which picks up the gh CLI's
// authentication.
func NewActionResolver(cache *ActionCache, client RESTClient) *ActionResolver {
	return &ActionResolver{cache: cache, client: client}
}

// Cache returns the cache backing the resolver.
func (r *ActionResolver) Cache() *ActionCache {
	return r.cache
}

type gitRefResponse struct {
	Object struct {
		SHA  string `json:"sha"`
		Type string `json:"type"`
	} `json:"object"`
}

// ResolveSHA returns the commit SHA the tag repo@version points at.
func (r *ActionResolver) ResolveSHA(ctx context.Context, repo, version string) (string, error) {
	if sha, found := r.cache.Get(repo, version); found {
		resolverLog.Printf("Cache hit for %s@%s: %s", repo, version, sha)
		return sha, nil
	}

	resolverLog.Printf("Cache miss for %s@%s, querying GitHub API", repo, version)
	sha, err := r.resolveFromGitHub(ctx, repo, version)
	if err != nil {
		resolverLog.Printf("Failed to resolve %s@%s: %v", repo, version, err)
		return "", err
	}

	r.cache.Set(repo, version, sha)
	return sha, nil
}

func (r *ActionResolver) resolveFromGitHub(ctx context.Context, repo, version string) (string, error) {
	if r.client == nil {
		client, err := api.DefaultRESTClient()
		if err != nil {
			return "", fmt.Errorf("failed to create GitHub API client: %w", err)
		}
		r.client = client
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	baseRepo := extractBaseRepo(repo)
	var ref gitRefResponse
	path := fmt.Sprintf("repos/%s/git/ref/tags/%s", baseRepo, version)
	resolverLog.Printf("Querying GitHub API: %s", path)
	if err := r.client.DoWithContext(ctx, http.MethodGet, path, nil, &ref); err != nil {
		if gitutil.IsAuthError(err.Error()) {
			return "", fmt.Errorf("failed to resolve %s@%s: %w (run 'gh auth login' or set GH_TOKEN)", repo, version, err)
		}
		return "", fmt.Errorf("failed to resolve %s@%s: %w", repo, version, err)
	}

	// Annotated tags point at a tag object that in turn points at the commit
	if ref.Object.Type == "tag" {
		var tag gitRefResponse
		path := fmt.Sprintf("repos/%s/git/tags/%s", baseRepo, ref.Object.SHA)
		resolverLog.Printf("Dereferencing annotated tag: %s", path)
		if err := r.client.DoWithContext(ctx, http.MethodGet, path, nil, &tag); err != nil {
			return "", fmt.Errorf("failed to dereference tag %s@%s: %w", repo, version, err)
		}
		ref = tag
	}

	sha := strings.TrimSpace(ref.Object.SHA)
	if len(sha) != 40 || !gitutil.IsHexString(sha) {
		return "", fmt.Errorf("invalid SHA format for %s@%s: %q", repo, version, sha)
	}
	return sha, nil
}

// extractBaseRepo extracts the base repository from a repo path
// For "actions/checkout" -> "actions/checkout"
// For "pulumi/actions/sub/path" -> "pulumi/actions"
func extractBaseRepo(repo string) string {
	parts := strings.Split(repo, "/")
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return repo
}
