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

const studentServiceName = "student-registry"

// StudentClient is a thin typed caller to the student-registry HTTP API.
type StudentClient struct {
	baseURL  string
	client   *http.Client
	observer LookupObserver
	logger   *zap.Logger
}

// NewStudentClient constructs a StudentClient with the configured timeout.
func NewStudentClient(cfg config.RemoteServiceConfig, observer LookupObserver, logger *zap.Logger) *StudentClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentClient{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: timeout},
		observer: observer,
		logger:   logger,
	}
}

// GetStudentByStudentID fetches the student snapshot for the given
// identifier, applying the same three-way outcome mapping as the course
// client: 404 means the student does not exist, 422 means the registry
// rejected the identifier itself, anything else is a remote fault.
func (c *StudentClient) GetStudentByStudentID(ctx context.Context, studentID string) (*models.StudentSnapshot, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/api/v1/students/%s", c.baseURL, studentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		observe(c.observer, studentServiceName, OutcomeFault, start)
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "student service request could not be built")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observe(c.observer, studentServiceName, OutcomeFault, start)
		c.logger.Warn("student lookup failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "student service unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var snapshot models.StudentSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			observe(c.observer, studentServiceName, OutcomeFault, start)
			return nil, appErrors.Wrap(err, appErrors.ErrRemoteFault.Code, appErrors.ErrRemoteFault.Status, "student service returned an unreadable body")
		}
		observe(c.observer, studentServiceName, OutcomeOK, start)
		return &snapshot, nil
	case http.StatusNotFound:
		observe(c.observer, studentServiceName, OutcomeNotFound, start)
		return nil, appErrors.StudentNotFound(studentID)
	case http.StatusUnprocessableEntity:
		observe(c.observer, studentServiceName, OutcomeInvalid, start)
		return nil, appErrors.InvalidStudentID(studentID)
	default:
		observe(c.observer, studentServiceName, OutcomeFault, start)
		c.logger.Warn("student lookup returned unexpected status", zap.String("student_id", studentID), zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrRemoteFault, fmt.Sprintf("student service returned status %d", resp.StatusCode))
	}
}
