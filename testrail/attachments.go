package testrail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AttachmentsClient wraps the attachment endpoints
type AttachmentsClient struct {
	base *BaseClient
}

func (c *AttachmentsClient) upload(ctx context.Context, path, filePath string) (*AttachmentRef, error) {
	var ref AttachmentRef
	if err := c.base.transport.Upload(ctx, path, filePath, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// AddAttachmentToCase uploads a local file to a case
func (c *AttachmentsClient) AddAttachmentToCase(ctx context.Context, caseID int, filePath string) (*AttachmentRef, error) {
	ref, err := c.upload(ctx, endpoint("add_attachment_to_case", caseID), filePath)
	if err != nil {
		return nil, handleAPIError(err, "failed to add attachment to case %d", caseID)
	}
	return ref, nil
}

// AddAttachmentToResult uploads a local file to a result
func (c *AttachmentsClient) AddAttachmentToResult(ctx context.Context, resultID int, filePath string) (*AttachmentRef, error) {
	ref, err := c.upload(ctx, endpoint("add_attachment_to_result", resultID), filePath)
	if err != nil {
		return nil, handleAPIError(err, "failed to add attachment to result %d", resultID)
	}
	return ref, nil
}

// AddAttachmentToRun uploads a local file to a run
func (c *AttachmentsClient) AddAttachmentToRun(ctx context.Context, runID int, filePath string) (*AttachmentRef, error) {
	ref, err := c.upload(ctx, endpoint("add_attachment_to_run", runID), filePath)
	if err != nil {
		return nil, handleAPIError(err, "failed to add attachment to run %d", runID)
	}
	return ref, nil
}

// AddAttachmentToPlan uploads a local file to a plan
func (c *AttachmentsClient) AddAttachmentToPlan(ctx context.Context, planID int, filePath string) (*AttachmentRef, error) {
	ref, err := c.upload(ctx, endpoint("add_attachment_to_plan", planID), filePath)
	if err != nil {
		return nil, handleAPIError(err, "failed to add attachment to plan %d", planID)
	}
	return ref, nil
}

// AddAttachmentToPlanEntry uploads a local file to a plan entry
func (c *AttachmentsClient) AddAttachmentToPlanEntry(ctx context.Context, planID int, entryID, filePath string) (*AttachmentRef, error) {
	ref, err := c.upload(ctx, endpoint("add_attachment_to_plan_entry", planID, entryID), filePath)
	if err != nil {
		return nil, handleAPIError(err, "failed to add attachment to entry %s of plan %d", entryID, planID)
	}
	return ref, nil
}

// GetAttachmentsForCase lists the attachments of a case
func (c *AttachmentsClient) GetAttachmentsForCase(ctx context.Context, caseID int, opts ListOptions) ([]Attachment, error) {
	path := withQuery(endpoint("get_attachments_for_case", caseID), opts.values())
	attachments, err := c.list(ctx, path)
	if err != nil {
		return nil, handleAPIError(err, "failed to get attachments for case %d", caseID)
	}
	return attachments, nil
}

// GetAttachmentsForTest lists the attachments of a test's results
func (c *AttachmentsClient) GetAttachmentsForTest(ctx context.Context, testID int) ([]Attachment, error) {
	attachments, err := c.list(ctx, endpoint("get_attachments_for_test", testID))
	if err != nil {
		return nil, handleAPIError(err, "failed to get attachments for test %d", testID)
	}
	return attachments, nil
}

func (c *AttachmentsClient) list(ctx context.Context, path string) ([]Attachment, error) {
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Attachment](c.base, raw, "attachments")
}

// DeleteAttachment deletes an attachment. attachmentID is numeric on
// TestRail server and a UUID on TestRail Cloud.
func (c *AttachmentsClient) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if attachmentID == "" {
		return handleAPIError(fmt.Errorf("attachment ID is required"), "failed to delete attachment")
	}
	if err := c.base.Request(ctx, http.MethodPost, endpoint("delete_attachment", attachmentID), emptyBody, nil); err != nil {
		return handleAPIError(err, "failed to delete attachment %s", attachmentID)
	}
	return nil
}
