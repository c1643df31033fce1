package front

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"multi-git-dashboard/internal/entity"
)

// Downstream reads course data from the course API on behalf of the caller.
type Downstream struct {
	APIBase string
	Client  *http.Client
}

// StatusError is a non-2xx answer from the course API.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream %s %s -> %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// doJSON forwards authorization unchanged so the API sees the caller's own
// identity.
func (d *Downstream) doJSON(ctx context.Context, method, url, authorization string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: string(b)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (d *Downstream) Course(ctx context.Context, authorization, courseID string) (*Course, error) {
	var course Course
	err := d.doJSON(ctx, http.MethodGet, d.APIBase+"/api/courses/"+url.PathEscape(courseID), authorization, &course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *Downstream) JiraBoard(ctx context.Context, authorization, boardID string) (*entity.JiraBoard, error) {
	var board entity.JiraBoard
	err := d.doJSON(ctx, http.MethodGet, d.APIBase+"/api/jira/boards/"+url.PathEscape(boardID), authorization, &board)
	if err != nil {
		return nil, err
	}
	return &board, nil
}
