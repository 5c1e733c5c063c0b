package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wordflip/internal/domain"
)

const maxResponseSize = 1 << 20

var errSaveRejected = errors.New("list was not saved")

// APIClient talks to the wordflip API server
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the server at baseURL
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error string `json:"error"`
}

// Translate calls POST /words/translate. An empty string with a nil
// error means the server answered but its upstream could not translate.
func (c *APIClient) Translate(ctx context.Context, text, target string) (string, error) {
	var resp struct {
		Translated string `json:"translated"`
	}
	err := c.do(ctx, http.MethodPost, "/words/translate", "", map[string]string{
		"text":   text,
		"target": target,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Translated, nil
}

// Ping checks that the server answers a translation request
func (c *APIClient) Ping(ctx context.Context) error {
	_, err := c.Translate(ctx, "ping", "ko")
	return err
}

func (c *APIClient) Register(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	return c.auth(ctx, "/auth/register", username, password)
}

func (c *APIClient) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	return c.auth(ctx, "/auth/login", username, password)
}

func (c *APIClient) auth(ctx context.Context, path, username, password string) (*domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.do(ctx, http.MethodPost, path, "", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &domain.NetworkError{Op: path, Err: errors.New("response without token")}
	}
	if result.User.Username == "" {
		result.User.Username = username
	}
	return &result, nil
}

// SaveList calls POST /words/add
func (c *APIClient) SaveList(ctx context.Context, token, title string, words []domain.Word) (*domain.List, error) {
	var resp struct {
		Saved bool         `json:"saved"`
		ID    string       `json:"id"`
		Doc   *domain.List `json:"doc"`
	}
	err := c.do(ctx, http.MethodPost, "/words/add", token, map[string]interface{}{
		"listTitle": title,
		"words":     words,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Saved || resp.Doc == nil {
		return nil, &domain.NetworkError{Op: "/words/add", Err: errSaveRejected}
	}
	if resp.Doc.ID == "" {
		resp.Doc.ID = resp.ID
	}
	return resp.Doc, nil
}

// GetLists calls GET /words, newest first
func (c *APIClient) GetLists(ctx context.Context, token string) ([]domain.List, error) {
	var resp struct {
		Docs []domain.List `json:"docs"`
	}
	if err := c.do(ctx, http.MethodGet, "/words", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

// ToggleFavorite calls POST /words/{listId}/toggle-favorite
func (c *APIClient) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	var resp struct {
		OK       bool `json:"ok"`
		Favorite bool `json:"favorite"`
	}
	path := "/words/" + url.PathEscape(listID) + "/toggle-favorite"
	if err := c.do(ctx, http.MethodPost, path, "", map[string]int{"index": index}, &resp); err != nil {
		return false, err
	}
	return resp.Favorite, nil
}

// do sends a JSON request and classifies the outcome. Transport failures,
// undecodable bodies and 5xx answers become *domain.NetworkError.
func (c *APIClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// local tokens mean nothing to the server
	if token != "" && !domain.IsLocalID(token) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &domain.NetworkError{Op: path, Err: err}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return &domain.NetworkError{Op: path, Err: fmt.Errorf("server returned %d", resp.StatusCode)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err != nil {
			return &domain.NetworkError{Op: path, Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
		}
		return classify(resp.StatusCode, apiErr.Error)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.NetworkError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}

	// a success status carrying an error field is an upstream failure
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return &domain.NetworkError{Op: path, Err: fmt.Errorf("server reported: %s", apiErr.Error)}
	}
	return nil
}

// classify maps a 4xx answer back to the domain errors the server started from
func classify(status int, msg string) error {
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case msg == domain.ErrUsernameTaken.Message:
		return domain.ErrUsernameTaken
	case msg == domain.ErrInvalidCredentials.Message:
		return domain.ErrInvalidCredentials
	case msg == domain.ErrInvalidIndex.Message:
		return domain.ErrInvalidIndex
	case status == http.StatusBadRequest && msg != "":
		return domain.NewValidationError(msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, msg)
	}
}
