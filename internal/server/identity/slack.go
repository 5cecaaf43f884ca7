package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	slackAuthorizeURL = "https://slack.com/openid/connect/authorize"
	slackTokenURL     = "https://slack.com/api/openid.connect.token"
	slackUserInfoURL  = "https://slack.com/api/openid.connect.userInfo"
)

// SlackProvider implements Provider against Slack's OpenID Connect flow.
type SlackProvider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	client       *http.Client
}

func NewSlackProvider(clientID, clientSecret, redirectURL string) *SlackProvider {
	return &SlackProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *SlackProvider) AuthURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURL)
	q.Set("scope", "openid profile")
	q.Set("state", state)
	return slackAuthorizeURL + "?" + q.Encode()
}

type slackTokenResponse struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error"`
	AccessToken string `json:"access_token"`
}

type slackUserInfoResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *SlackProvider) Exchange(ctx context.Context, code string) (*Identity, error) {

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("redirect_uri", p.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, slackTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var token slackTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if !token.OK {
		return nil, fmt.Errorf("token exchange failed: %s", token.Error)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, slackUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err = p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	defer resp.Body.Close()

	var info slackUserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	if !info.OK {
		return nil, fmt.Errorf("user info failed: %s", info.Error)
	}

	return &Identity{
		SlackID:        info.Sub,
		Name:           info.Name,
		ProfilePicture: info.Picture,
	}, nil
}
