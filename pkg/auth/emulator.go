package auth

import (
	"context"
	"fmt"
	"net/http"
)

// Admin routes only the auth emulator serves. They live outside the
// versioned API and take no emulator route prefix.

func (c *Client) emulatorProjectRoute(projectID, suffix string) string {
	return fmt.Sprintf("/emulator/v1/projects/%s/%s", projectID, suffix)
}

// EmulatorClearAccounts removes every user account in the project.
func (c *Client) EmulatorClearAccounts(ctx context.Context, projectID string) error {
	route := c.emulatorProjectRoute(projectID, "accounts")

	return c.do(ctx, http.MethodDelete, c.identityToolkitURL+route, route, nil, nil, nil)
}

// EmulatorGetConfiguration fetches the emulator's project configuration.
func (c *Client) EmulatorGetConfiguration(ctx context.Context, projectID string) (EmulatorConfiguration, error) {
	route := c.emulatorProjectRoute(projectID, "config")

	var out EmulatorConfiguration
	err := c.do(ctx, http.MethodGet, c.identityToolkitURL+route, route, nil, nil, &out)

	return out, err
}

// EmulatorUpdateConfiguration toggles whether the emulator allows multiple
// accounts with the same email.
func (c *Client) EmulatorUpdateConfiguration(ctx context.Context, projectID string, allowDuplicateEmails bool) (EmulatorConfiguration, error) {
	route := c.emulatorProjectRoute(projectID, "config")
	body := map[string]any{
		"signIn": map[string]any{"allowDuplicateEmails": allowDuplicateEmails},
	}

	var out EmulatorConfiguration
	err := c.do(ctx, http.MethodPatch, c.identityToolkitURL+route, route, nil, body, &out)

	return out, err
}
