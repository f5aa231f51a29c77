package lmsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
)

const (
	coursePath  = "/api/instructor/courses/{courseId}"
	modulesPath = "/api/instructor/courses/{courseId}/modules"
	uploadPath  = "/api/upload/{kind}"
)

// APIError is returned when the LMS answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lms api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("lms api: %d %s", e.StatusCode, e.Message)
}

func IsAPIError(err error) bool {
	_, ok := errors.Cause(err).(*APIError)
	return ok
}

// Client talks to the LMS REST API. It implements course.Backend.
// Requests are never retried: failures are reported to the user who re-issues the action.
type Client struct {
	http *resty.Client
}

var _ course.Backend = (*Client)(nil)

func NewClient(conf core.BackendConfig) *Client {
	client := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTimeout(conf.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if conf.Token != "" {
		client.SetAuthToken(conf.Token)
	}
	return &Client{http: client}
}

func (c *Client) FetchCourse(ctx context.Context, courseID course.ID) (course.Course, error) {
	var dto courseDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("courseId", courseID.String()).
		SetResult(&dto).
		Get(coursePath)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "fetching course")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return course.Course{}, course.ErrCourseNotFound
	}
	if err := checkResponse(resp); err != nil {
		return course.Course{}, err
	}

	crs := dto.toCourse()
	if crs.ID == "" {
		crs.ID = courseID
	}
	crs.FetchedAt = resp.ReceivedAt().UTC()
	return crs, nil
}

func (c *Client) SaveModules(ctx context.Context, courseID course.ID, modules []course.Module) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("courseId", courseID.String()).
		SetBody(newSaveModulesRequest(modules)).
		Post(modulesPath)
	if err != nil {
		return errors.Wrap(err, "saving modules")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return course.ErrCourseNotFound
	}
	return checkResponse(resp)
}

// Upload sends the file as multipart form data; the form field is named after the kind.
func (c *Client) Upload(ctx context.Context, kind course.UploadKind, file course.File) (course.UploadResult, error) {
	var res course.UploadResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("kind", string(kind)).
		SetFileReader(string(kind), file.Name, file.Content).
		SetResult(&res).
		Post(uploadPath)
	if err != nil {
		return course.UploadResult{}, errors.Wrap(err, "uploading file")
	}
	if err := checkResponse(resp); err != nil {
		return course.UploadResult{}, err
	}
	if res.URL == "" {
		return course.UploadResult{}, errors.New("upload response has no url")
	}
	return res, nil
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}
