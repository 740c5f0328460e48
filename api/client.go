// Package api is the client for the blog REST backend. Every call returns a
// normalized Envelope; the error return is reserved for transport or
// encoding failures. Backend rejections come back as IsSuccess=false with
// the status and, when the backend provided one, its message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inkwell/domain"
)

// Envelope is the normalized outcome of a backend call.
type Envelope struct {
	IsSuccess bool
	Status    int
	Message   string
}

// AuthPayload is what the backend returns on a successful login, standard or
// test user.
type AuthPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Name         string `json:"name"`
	Username     string `json:"username"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UserLogin exchanges credentials for tokens and the account identity.
func (c *Client) UserLogin(ctx context.Context, creds domain.Credentials) (AuthPayload, Envelope, error) {
	var payload AuthPayload
	env, err := c.do(ctx, http.MethodPost, "/login", creds, &payload)
	return payload, env, err
}

// UserSignup registers a new account. Success is the whole answer; the new
// user still has to log in afterwards.
func (c *Client) UserSignup(ctx context.Context, profile domain.SignupProfile) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/signup", profile, nil)
}

// TestUser logs in the shared demo account without credentials.
func (c *Client) TestUser(ctx context.Context) (AuthPayload, Envelope, error) {
	var payload AuthPayload
	env, err := c.do(ctx, http.MethodPost, "/testuser", nil, &payload)
	return payload, env, err
}

func (c *Client) CreatePost(ctx context.Context, post domain.Post) (Envelope, error) {
	return c.do(ctx, http.MethodPost, "/create", post, nil)
}

func (c *Client) GetPostByID(ctx context.Context, id string) (domain.Post, Envelope, error) {
	var post domain.Post
	env, err := c.do(ctx, http.MethodGet, "/post/"+url.PathEscape(id), nil, &post)
	return post, env, err
}

func (c *Client) GetAllPosts(ctx context.Context, category string) ([]domain.Post, Envelope, error) {
	path := "/posts"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var posts []domain.Post
	env, err := c.do(ctx, http.MethodGet, path, nil, &posts)
	return posts, env, err
}

// UpdatePost resubmits the whole post under its id.
func (c *Client) UpdatePost(ctx context.Context, post domain.Post) (Envelope, error) {
	return c.do(ctx, http.MethodPut, "/update/"+url.PathEscape(post.ID), post, nil)
}

// UploadFile sends the file as multipart form data and returns the stored
// file URL.
func (c *Client) UploadFile(ctx context.Context, filename string, file io.Reader) (string, Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", filename); err != nil {
		return "", Envelope{}, err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", Envelope{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", Envelope{}, err
	}
	if err := mw.Close(); err != nil {
		return "", Envelope{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/file/upload", &buf)
	if err != nil {
		return "", Envelope{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", Envelope{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Envelope{}, fmt.Errorf("reading upload response: %w", err)
	}

	env := envelopeFor(resp.StatusCode, body)
	if !env.IsSuccess {
		return "", env, nil
	}

	// The backend answers with the stored URL, either as a JSON string or
	// as plain text.
	var stored string
	if err := json.Unmarshal(body, &stored); err != nil {
		stored = strings.TrimSpace(string(body))
	}
	return stored, env, nil
}

// do runs one request/response cycle. A non-2xx status is not an error: it
// is folded into the envelope for the caller to act on.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (Envelope, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshalling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Envelope{}, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("reading response of %s %s: %w", method, path, err)
	}

	env := envelopeFor(resp.StatusCode, respBody)
	if !env.IsSuccess {
		return env, nil
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return Envelope{}, fmt.Errorf("unmarshalling response of %s %s: %w", method, path, err)
		}
	}
	return env, nil
}

func envelopeFor(status int, body []byte) Envelope {
	env := Envelope{
		IsSuccess: status >= 200 && status < 300,
		Status:    status,
	}
	if !env.IsSuccess {
		var failure struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body, &failure); err == nil {
			env.Message = failure.Msg
		}
	}
	return env
}
