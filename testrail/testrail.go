package testrail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Client bundles one resource client per domain area. All of them share a
// single BaseClient and therefore a single Config and header set.
type Client struct {
	base *BaseClient

	Projects    *ProjectsClient
	Suites      *SuitesClient
	Sections    *SectionsClient
	Cases       *CasesClient
	Runs        *RunsClient
	Tests       *TestsClient
	Results     *ResultsClient
	Plans       *PlansClient
	Milestones  *MilestonesClient
	SharedSteps *SharedStepsClient
	Users       *UsersClient
	Attachments *AttachmentsClient
}

// New creates a TestRail client. No request is made until a method is called.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	base, err := NewBaseClient(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		base:        base,
		Projects:    &ProjectsClient{base: base},
		Suites:      &SuitesClient{base: base},
		Sections:    &SectionsClient{base: base},
		Cases:       &CasesClient{base: base},
		Runs:        &RunsClient{base: base},
		Tests:       &TestsClient{base: base},
		Results:     &ResultsClient{base: base},
		Plans:       &PlansClient{base: base},
		Milestones:  &MilestonesClient{base: base},
		SharedSteps: &SharedStepsClient{base: base},
		Users:       &UsersClient{base: base},
		Attachments: &AttachmentsClient{base: base},
	}, nil
}

// Base returns the shared BaseClient for raw requests.
func (c *Client) Base() *BaseClient {
	return c.base
}

// SetHeader changes a default header for every later call of every resource
// client. Not isolated from calls already in flight.
func (c *Client) SetHeader(name, value string) {
	c.base.transport.SetHeader(name, value)
}

// TestConnection verifies the URL and credentials by fetching the current user.
func (c *Client) TestConnection(ctx context.Context) (*User, error) {
	user, err := c.Users.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TestRail: %w", err)
	}
	return user, nil
}
