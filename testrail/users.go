package testrail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// UsersClient wraps the user endpoints
type UsersClient struct {
	base *BaseClient
}

// GetUser returns an existing user
func (c *UsersClient) GetUser(ctx context.Context, userID int) (*User, error) {
	user, err := request[User](ctx, c.base, http.MethodGet, endpoint("get_user", userID), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get user %d", userID)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email address
func (c *UsersClient) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	path := withQuery(endpoint("get_user_by_email"), url.Values{"email": {email}})
	user, err := request[User](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get user by email %s", email)
	}
	return &user, nil
}

// GetCurrentUser returns the user the client authenticates as
func (c *UsersClient) GetCurrentUser(ctx context.Context) (*User, error) {
	user, err := request[User](ctx, c.base, http.MethodGet, endpoint("get_current_user"), nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get current user")
	}
	return &user, nil
}

// GetUsers returns the users of the instance, or of one project when
// projectID is non-zero. The pagination envelope is stripped.
func (c *UsersClient) GetUsers(ctx context.Context, projectID int) ([]User, error) {
	path := endpoint("get_users")
	if projectID != 0 {
		path = endpoint("get_users", projectID)
	}
	raw, err := request[json.RawMessage](ctx, c.base, http.MethodGet, path, nil)
	if err != nil {
		return nil, handleAPIError(err, "failed to get users")
	}
	users, err := decodeList[User](c.base, raw, "users")
	if err != nil {
		return nil, handleAPIError(err, "failed to get users")
	}
	return users, nil
}
