package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"skywatch/tracker/internal/constants"
)

const (
	defaultBaseURL  = "https://opensky-network.org/api"
	defaultTokenURL = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"

	connectTimeout = 10 * time.Second
	requestTimeout = 30 * time.Second

	maxAttempts       = 3
	retryBaseInterval = 500 * time.Millisecond

	// Advertised token lifetimes are shortened by this margin so a token
	// is never presented right at its expiry instant.
	tokenExpiryMargin = 30 * time.Second
)

// AuthMode selects how outbound requests are authenticated. It is fixed
// at construction time.
type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthBasic
	AuthOAuth
)

// accessToken is the OAuth token cache. The zero value means NoToken; a
// non-empty value with a future expiry is Valid. refreshIfNeeded is the
// only transition between the two.
type accessToken struct {
	Value     string
	ExpiresAt time.Time
}

func (t accessToken) validAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// StateProvider is the interface consumed by the ingestion pipeline and
// the live query service.
type StateProvider interface {
	FetchStates(ctx context.Context, box *BoundingBox) ([]RawState, error)
}

// OpenSkyProvider fetches aircraft state vectors from the OpenSky Network
// API. A single instance is safe for concurrent use; its token cache is
// internal. Distinct instances share no token state and may refresh
// redundantly.
type OpenSkyProvider struct {
	BaseURL  string
	TokenURL string

	Username string
	Password string

	ClientID     string
	ClientSecret string

	// Mode is derived from the credentials at construction: OAuth when
	// client id+secret are set, basic when username+password are set,
	// unauthenticated otherwise.
	Mode AuthMode

	// Extended requests the trailing aircraft-category field.
	Extended bool

	Client *http.Client

	// Limiter throttles outbound calls; nil disables throttling.
	Limiter *rate.Limiter

	mu           sync.Mutex
	token        accessToken
	refreshGroup singleflight.Group
}

var _ StateProvider = (*OpenSkyProvider)(nil)

// NewOpenSkyProvider creates a provider configured from the environment.
func NewOpenSkyProvider() *OpenSkyProvider {
	baseURL := os.Getenv("OPENSKY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	tokenURL := os.Getenv("OPENSKY_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	p := &OpenSkyProvider{
		BaseURL:      baseURL,
		TokenURL:     tokenURL,
		Username:     os.Getenv("OPENSKY_USERNAME"),
		Password:     os.Getenv("OPENSKY_PASSWORD"),
		ClientID:     os.Getenv("OPENSKY_CLIENT_ID"),
		ClientSecret: os.Getenv("OPENSKY_CLIENT_SECRET"),
		Extended:     os.Getenv("OPENSKY_EXTENDED") == "1",
		Client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		// OpenSky allows roughly 4 requests/sec for authenticated users
		Limiter: rate.NewLimiter(rate.Limit(4), 4),
	}
	p.Mode = selectAuthMode(p.ClientID, p.ClientSecret, p.Username, p.Password)
	return p
}

func selectAuthMode(clientID, clientSecret, username, password string) AuthMode {
	if clientID != "" && clientSecret != "" {
		return AuthOAuth
	}
	if username != "" && password != "" {
		return AuthBasic
	}
	return AuthNone
}

// FetchStates retrieves the current state vectors, optionally restricted
// to a bounding box. A nil box means the full feed.
func (p *OpenSkyProvider) FetchStates(ctx context.Context, box *BoundingBox) ([]RawState, error) {
	params := url.Values{}
	if box != nil {
		params.Set("lamin", formatCoord(box.LaMin))
		params.Set("lomin", formatCoord(box.LoMin))
		params.Set("lamax", formatCoord(box.LaMax))
		params.Set("lomax", formatCoord(box.LoMax))
	}
	if p.Extended {
		params.Set("extended", "1")
	}

	endpoint := p.BaseURL + "/states/all"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var bearer string
	if p.Mode == AuthOAuth {
		tok, err := p.refreshIfNeeded(ctx)
		if err != nil {
			return nil, err
		}
		bearer = tok
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		switch p.Mode {
		case AuthOAuth:
			req.Header.Set("Authorization", "Bearer "+bearer)
		case AuthBasic:
			req.SetBasicAuth(p.Username, p.Password)
		}
		return req, nil
	}

	resp, err := p.doWithRetry(ctx, build)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     err,
		}
	}

	if err := classifyStatus(resp.StatusCode, string(body)); err != nil {
		return nil, err
	}

	return parseStates(body)
}

// refreshIfNeeded returns the cached token when it is still valid, and
// otherwise performs exactly one token request even under concurrent
// callers.
func (p *OpenSkyProvider) refreshIfNeeded(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.token.validAt(time.Now()) {
		v := p.token.Value
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	v, err, _ := p.refreshGroup.Do("token", func() (interface{}, error) {
		// Re-check: another caller may have refreshed while we queued.
		p.mu.Lock()
		if p.token.validAt(time.Now()) {
			v := p.token.Value
			p.mu.Unlock()
			return v, nil
		}
		p.mu.Unlock()

		tok, err := p.fetchToken(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.token = tok
		p.mu.Unlock()
		return tok.Value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// fetchToken performs the client-credentials grant. Any failure aborts the
// surrounding state fetch; no partial or default token is ever cached.
func (p *OpenSkyProvider) fetchToken(ctx context.Context) (accessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	encoded := form.Encode()

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	resp, err := p.doWithRetry(ctx, build)
	if err != nil {
		return accessToken{}, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return accessToken{}, &ProviderError{
			Code:    constants.ErrCodeTokenError,
			Message: constants.GetErrorMessage(constants.ErrCodeTokenError),
			Err:     readErr,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return accessToken{}, &ProviderError{
			Code:    constants.ErrCodeTokenError,
			Message: fmt.Sprintf("Token endpoint returned HTTP %d", resp.StatusCode),
			Details: string(body),
		}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return accessToken{}, &ProviderError{
			Code:    constants.ErrCodeTokenError,
			Message: "Failed to decode token response",
			Details: string(body),
			Err:     err,
		}
	}
	if tokenResp.AccessToken == "" {
		return accessToken{}, &ProviderError{
			Code:    constants.ErrCodeTokenError,
			Message: "Token response missing access_token",
			Details: string(body),
		}
	}

	ttl := time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl < 0 {
		ttl = 0
	}

	return accessToken{
		Value:     tokenResp.AccessToken,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// doWithRetry executes a request with up to maxAttempts attempts.
// Only transport failures (connection errors, timeouts) are retried, with
// exponential backoff and jitter; any HTTP response is returned to the
// caller for classification.
func (p *OpenSkyProvider) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	backoff := retryBaseInterval
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			jitter := time.Duration(rand.Int63n(int64(backoff)))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return nil, &ProviderError{
					Code:    constants.ErrCodeNetworkError,
					Message: "Request cancelled during retry backoff",
					Err:     ctx.Err(),
				}
			}
			backoff *= 2
		}

		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return nil, &ProviderError{
					Code:    constants.ErrCodeNetworkError,
					Message: "Request cancelled while rate limited",
					Err:     err,
				}
			}
		}

		req, err := build()
		if err != nil {
			return nil, &ProviderError{
				Code:    constants.ErrCodeNetworkError,
				Message: "Failed to create request",
				Err:     err,
			}
		}

		resp, err := p.httpClient().Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, &ProviderError{
		Code:    constants.ErrCodeNetworkError,
		Message: fmt.Sprintf("%s after %d attempts", constants.GetErrorMessage(constants.ErrCodeNetworkError), maxAttempts),
		Err:     lastErr,
	}
}

func (p *OpenSkyProvider) httpClient() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

// classifyStatus maps non-200 responses onto the upstream error taxonomy.
func classifyStatus(status int, body string) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeNotFound),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("OpenSky API error: HTTP %d", status),
			Details: body,
		}
	}
}

// parseStates decodes the states/all payload. A null or missing states
// array is an empty result, not an error.
func parseStates(body []byte) ([]RawState, error) {
	var payload struct {
		Time   int64           `json:"time"`
		States [][]interface{} `json:"states"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: "Failed to decode states response",
			Details: string(body),
			Err:     err,
		}
	}

	states := make([]RawState, 0, len(payload.States))
	for _, fields := range payload.States {
		if len(fields) == 0 {
			continue
		}
		states = append(states, stateFromArray(fields))
	}
	return states, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
