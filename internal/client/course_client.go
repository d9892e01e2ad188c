package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campusops/enrollments-api/internal/models"
	"github.com/campusops/enrollments-api/pkg/config"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

const courseServiceName = "course-catalog"

// CourseClient is a thin typed caller to the course-catalog HTTP API.
type CourseClient struct {
	baseURL  string
	client   *http.Client
	observer LookupObserver
	logger   *zap.Logger
}

// NewCourseClient constructs a CourseClient with the configured timeout.
func NewCourseClient(cfg config.RemoteServiceConfig, observer LookupObserver, logger *zap.Logger) *CourseClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseClient{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: timeout},
		observer: observer,
		logger:   logger,
	}
}

// GetCourseByCourseID fetches the course snapshot for the given identifier.
// A remote 404 maps to CourseNotFound, a remote 422 to InvalidCourseID, and
// every other failure to a remote fault so callers never mistake an outage
// for a missing course.
func (c *CourseClient) GetCourseByCourseID(ctx context.Context, courseID string) (*models.CourseSnapshot, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/api/v1/courses/%s", c.baseURL, courseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		observe(c.observer, courseServiceName, OutcomeFault, start)
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "course service request could not be built")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observe(c.observer, courseServiceName, OutcomeFault, start)
		c.logger.Warn("course lookup failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "course service unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var snapshot models.CourseSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			observe(c.observer, courseServiceName, OutcomeFault, start)
			return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "course service returned an unreadable body")
		}
		observe(c.observer, courseServiceName, OutcomeOK, start)
		return &snapshot, nil
	case http.StatusNotFound:
		observe(c.observer, courseServiceName, OutcomeNotFound, start)
		return nil, appErrors.CourseNotFound(courseID)
	case http.StatusUnprocessableEntity:
		observe(c.observer, courseServiceName, OutcomeInvalid, start)
		return nil, appErrors.InvalidCourseID(courseID)
	default:
		observe(c.observer, courseServiceName, OutcomeFault, start)
		c.logger.Warn("course lookup returned unexpected status", zap.String("course_id", courseID), zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrRemoteFault, fmt.Sprintf("course service returned status %d", resp.StatusCode))
	}
}
