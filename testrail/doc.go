// Package testrail provides a client for the TestRail API v2.
//
// Every endpoint lives under /api/v2/{action}_{resource}[/{id}[/{id2}]] and
// is reached with HTTP Basic authentication. Reads use GET; every mutation
// (add_*, update_*, close_*, delete_*) is a POST, as the service requires.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := testrail.New(testrail.Config{
//		BaseURL:  "https://example.testrail.io",
//		Username: "user@example.com",
//		Password: "api-key",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	testCase, err := client.Cases.GetCase(ctx, 1)
//
// # Pagination
//
// List endpoints send limit=50&offset=0 unless ListOptions overrides either
// value, and return the service's pagination envelope.
//
// # Error Handling
//
// Every failure comes back as *Error with one of four kinds:
//
//   - KindTimeout: the configured timeout elapsed ("Request timed out")
//   - KindNetwork: no response was received ("Network error occurred")
//   - KindAPI: the service answered with an error status; Status and Data
//     carry the details
//   - KindGeneric: anything else ("Unexpected error: ...")
//
// The sentinels ErrTimeout, ErrNetwork, ErrAPI and ErrGeneric match the
// corresponding kind with errors.Is:
//
//	var apiErr *testrail.Error
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing resource
//	}
//
// Nothing is retried.
package testrail
