package auth

import "context"

// SignUp creates a new email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (SignUpResponse, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var out SignUpResponse
	err := c.post(ctx, signUpRoute, nil, body, &out)

	return out, err
}

// SignInWithPassword signs in with an email and password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (SignInPasswordResponse, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var out SignInPasswordResponse
	err := c.post(ctx, signInPasswordRoute, nil, body, &out)

	return out, err
}

// SignInAnonymous creates and signs in an anonymous account.
func (c *Client) SignInAnonymous(ctx context.Context) (SignUpResponse, error) {
	body := map[string]any{"returnSecureToken": true}

	var out SignUpResponse
	err := c.post(ctx, signUpRoute, nil, body, &out)

	return out, err
}

// SignInWithCustomToken exchanges a custom token minted by a trusted
// backend for an ID token.
func (c *Client) SignInWithCustomToken(ctx context.Context, token string) (CustomTokenResponse, error) {
	body := map[string]any{
		"token":             token,
		"returnSecureToken": true,
	}

	var out CustomTokenResponse
	err := c.post(ctx, signInCustomTokenRoute, nil, body, &out)

	return out, err
}

// SignInWithOAuth signs in with an OAuth credential from an identity
// provider such as google.com.
func (c *Client) SignInWithOAuth(ctx context.Context, requestURI, providerToken, providerID string, returnIdpCredential bool) (OAuthSignInResponse, error) {
	body := map[string]any{
		"requestUri":          requestURI,
		"postBody":            postBody(providerToken, providerID),
		"returnSecureToken":   true,
		"returnIdpCredential": returnIdpCredential,
	}

	var out OAuthSignInResponse
	err := c.post(ctx, signInOAuthRoute, nil, body, &out)

	return out, err
}

// Refresh trades a refresh token for a fresh ID token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	}

	var out RefreshResponse
	err := c.postToken(ctx, body, &out)

	return out, err
}

// GetAssociatedProviders lists the identity providers previously used to
// sign in with the given email.
func (c *Client) GetAssociatedProviders(ctx context.Context, email, continueURI string) (ProvidersResponse, error) {
	body := map[string]any{
		"identifier":  email,
		"continueUri": continueURI,
	}

	var out ProvidersResponse
	err := c.post(ctx, createAuthURIRoute, nil, body, &out)

	return out, err
}

// SendPasswordResetEmail sends a password reset email. A non-empty locale
// localizes the email.
func (c *Client) SendPasswordResetEmail(ctx context.Context, email, locale string) (ResetResponse, error) {
	body := map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}

	var out ResetResponse
	err := c.post(ctx, sendOobCodeRoute, localeHeaders(locale), body, &out)

	return out, err
}

// VerifyPasswordResetCode verifies the code sent in a password reset email.
func (c *Client) VerifyPasswordResetCode(ctx context.Context, resetCode string) (VerifyResetResponse, error) {
	body := map[string]any{"oobCode": resetCode}

	var out VerifyResetResponse
	err := c.post(ctx, resetPasswordRoute, nil, body, &out)

	return out, err
}

// ConfirmPasswordReset sets a new password once the reset code checks out.
func (c *Client) ConfirmPasswordReset(ctx context.Context, resetCode, newPassword string) (VerifyResetResponse, error) {
	body := map[string]any{
		"oobCode":     resetCode,
		"newPassword": newPassword,
	}

	var out VerifyResetResponse
	err := c.post(ctx, resetPasswordRoute, nil, body, &out)

	return out, err
}

// ChangeEmail changes the signed-in user's email. A non-empty locale
// localizes the revocation email sent to the old address.
func (c *Client) ChangeEmail(ctx context.Context, idToken, newEmail, locale string) (AccountUpdateResponse, error) {
	body := map[string]any{
		"idToken":           idToken,
		"email":             newEmail,
		"returnSecureToken": true,
	}

	var out AccountUpdateResponse
	err := c.post(ctx, updateAccountRoute, localeHeaders(locale), body, &out)

	return out, err
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, idToken, newPassword string) (AccountUpdateResponse, error) {
	body := map[string]any{
		"idToken":           idToken,
		"password":          newPassword,
		"returnSecureToken": true,
	}

	var out AccountUpdateResponse
	err := c.post(ctx, updateAccountRoute, nil, body, &out)

	return out, err
}

// UpdateProfile sets or removes the user's display name and photo.
func (c *Client) UpdateProfile(ctx context.Context, idToken string, update ProfileUpdate) (UpdateProfileResponse, error) {
	body := map[string]any{
		"idToken":           idToken,
		"returnSecureToken": true,
	}
	if update.DisplayName != "" {
		body["displayName"] = update.DisplayName
	}
	if update.PhotoURL != "" {
		body["photoUrl"] = update.PhotoURL
	}

	var deletes []string
	if update.DeleteDisplayName {
		deletes = append(deletes, "DISPLAY_NAME")
	}
	if update.DeletePhotoURL {
		deletes = append(deletes, "PHOTO_URL")
	}
	if len(deletes) > 0 {
		body["deleteAttribute"] = deletes
	}

	var out UpdateProfileResponse
	err := c.post(ctx, updateAccountRoute, nil, body, &out)

	return out, err
}

// GetUserData looks up the account behind an ID token.
func (c *Client) GetUserData(ctx context.Context, idToken string) (UserDataResponse, error) {
	body := map[string]any{"idToken": idToken}

	var out UserDataResponse
	err := c.post(ctx, lookupRoute, nil, body, &out)

	return out, err
}

// LinkWithEmailPassword associates an email and password with the account
// behind the ID token.
func (c *Client) LinkWithEmailPassword(ctx context.Context, idToken, email, password string) (AccountUpdateResponse, error) {
	body := map[string]any{
		"idToken":           idToken,
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var out AccountUpdateResponse
	err := c.post(ctx, updateAccountRoute, nil, body, &out)

	return out, err
}

// LinkWithOAuth associates an OAuth credential with the account behind the
// ID token.
func (c *Client) LinkWithOAuth(ctx context.Context, idToken, requestURI, providerToken, providerID string, returnIdpCredential bool) (OAuthSignInResponse, error) {
	body := map[string]any{
		"idToken":             idToken,
		"requestUri":          requestURI,
		"postBody":            postBody(providerToken, providerID),
		"returnSecureToken":   true,
		"returnIdpCredential": returnIdpCredential,
	}

	var out OAuthSignInResponse
	err := c.post(ctx, signInOAuthRoute, nil, body, &out)

	return out, err
}

// UnlinkProviders detaches the given provider IDs from the account.
func (c *Client) UnlinkProviders(ctx context.Context, idToken string, providerIDs []string) (UnlinkResponse, error) {
	body := map[string]any{
		"idToken":        idToken,
		"deleteProvider": providerIDs,
	}

	var out UnlinkResponse
	err := c.post(ctx, updateAccountRoute, nil, body, &out)

	return out, err
}

// SendEmailVerification sends a verification email to the signed-in user.
// A non-empty locale localizes the email.
func (c *Client) SendEmailVerification(ctx context.Context, idToken, locale string) (SendEmailVerificationResponse, error) {
	body := map[string]any{
		"idToken":     idToken,
		"requestType": "VERIFY_EMAIL",
	}

	var out SendEmailVerificationResponse
	err := c.post(ctx, sendOobCodeRoute, localeHeaders(locale), body, &out)

	return out, err
}

// ConfirmEmailVerification confirms the verification code sent by email.
func (c *Client) ConfirmEmailVerification(ctx context.Context, code string) (ConfirmEmailVerificationResponse, error) {
	body := map[string]any{"oobCode": code}

	var out ConfirmEmailVerificationResponse
	err := c.post(ctx, updateAccountRoute, nil, body, &out)

	return out, err
}

// DeleteAccount deletes the account behind the ID token.
func (c *Client) DeleteAccount(ctx context.Context, idToken string) error {
	body := map[string]any{"idToken": idToken}

	return c.post(ctx, deleteAccountRoute, nil, body, nil)
}
