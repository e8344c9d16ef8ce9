// Package reportclient is a typed HTTP client for the Archer report API.
package reportclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/verdict"
	"github.com/okian/archer/internal/report"
)

const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
)

// Client talks to a running report service.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the service URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Grade is one entry of the grade scale.
type Grade struct {
	Symbol string `json:"symbol"`
	Score  int    `json:"score"`
}

// Skill is a skill evaluation with its score.
type Skill struct {
	model.SkillEvaluation
	Score int `json:"score"`
}

// Skills is the skill sheet with its total.
type Skills struct {
	Skills []Skill `json:"skills"`
	Total  int     `json:"total"`
	Max    int     `json:"max"`
}

// StudentUpdate changes the selection. Nil fields are left as they are.
type StudentUpdate struct {
	Name  *string `json:"name,omitempty"`
	Coach *string `json:"coach,omitempty"`
	Batch *string `json:"batch,omitempty"`
}

// Roster lists coaches with their batches.
func (c *Client) Roster(ctx context.Context) ([]model.Coach, error) {
	var out []model.Coach
	err := c.do(ctx, http.MethodGet, "/roster", nil, &out)
	return out, err
}

// AddCoach adds a coach.
func (c *Client) AddCoach(ctx context.Context, name string) (model.Coach, error) {
	var out model.Coach
	err := c.do(ctx, http.MethodPost, "/roster/coaches", map[string]string{"name": name}, &out)
	return out, err
}

// AddBatch appends a batch to a coach and reports whether it was applied.
func (c *Client) AddBatch(ctx context.Context, coach string, b model.Batch) (bool, error) {
	body := map[string]string{"coach": coach, "name": b.Name, "level": b.Level}
	var out struct {
		Applied bool `json:"applied"`
	}
	err := c.do(ctx, http.MethodPost, "/roster/batches", body, &out)
	return out.Applied, err
}

// Levels lists the known level labels.
func (c *Client) Levels(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/levels", nil, &out)
	return out, err
}

// Grades lists the grade scale.
func (c *Client) Grades(ctx context.Context) ([]Grade, error) {
	var out []Grade
	err := c.do(ctx, http.MethodGet, "/grades", nil, &out)
	return out, err
}

// Skills returns the skill sheet.
func (c *Client) Skills(ctx context.Context) (Skills, error) {
	var out Skills
	err := c.do(ctx, http.MethodGet, "/skills", nil, &out)
	return out, err
}

// SetGrade grades one skill.
func (c *Client) SetGrade(ctx context.Context, skillID string, g grade.Grade) (Skill, error) {
	var out Skill
	path := "/skills/" + url.PathEscape(skillID)
	err := c.do(ctx, http.MethodPut, path, map[string]string{"grade": g.String()}, &out)
	return out, err
}

// Student returns the selection.
func (c *Client) Student(ctx context.Context) (model.Student, error) {
	var out model.Student
	err := c.do(ctx, http.MethodGet, "/student", nil, &out)
	return out, err
}

// UpdateStudent applies a selection change.
func (c *Client) UpdateStudent(ctx context.Context, u StudentUpdate) (model.Student, error) {
	var out model.Student
	err := c.do(ctx, http.MethodPut, "/student", u, &out)
	return out, err
}

// SetReview stores the review and returns the text that was kept.
func (c *Client) SetReview(ctx context.Context, text string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	err := c.do(ctx, http.MethodPut, "/review", map[string]string{"text": text}, &out)
	return out.Text, err
}

// Signature returns the coach signature data URL, empty when none is set.
func (c *Client) Signature(ctx context.Context) (string, error) {
	var out struct {
		Signature string `json:"signature"`
	}
	err := c.do(ctx, http.MethodGet, "/signature", nil, &out)
	return out.Signature, err
}

// SetSignature uploads an image data URL and returns the stored form.
func (c *Client) SetSignature(ctx context.Context, dataURL string) (string, error) {
	var out struct {
		Signature string `json:"signature"`
	}
	err := c.do(ctx, http.MethodPut, "/signature", map[string]string{"signature": dataURL}, &out)
	return out.Signature, err
}

// ClearSignature removes the coach signature.
func (c *Client) ClearSignature(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/signature", nil, nil)
}

// Verdict classifies the session total.
func (c *Client) Verdict(ctx context.Context) (verdict.Verdict, error) {
	var out verdict.Verdict
	err := c.do(ctx, http.MethodGet, "/verdict", nil, &out)
	return out, err
}

// Classify classifies score with the service thresholds.
func (c *Client) Classify(ctx context.Context, score int) (verdict.Verdict, error) {
	var out verdict.Verdict
	err := c.do(ctx, http.MethodGet, "/verdict?score="+strconv.Itoa(score), nil, &out)
	return out, err
}

// Report builds the session report.
func (c *Client) Report(ctx context.Context) (report.Report, error) {
	var out report.Report
	err := c.do(ctx, http.MethodGet, "/report", nil, &out)
	return out, err
}

// Stats returns service statistics.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &e) == nil {
			se.Code, se.Message = e.Code, e.Message
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
