package auth

// Response records for the Identity Toolkit endpoints. The upstream API
// speaks camelCase JSON except for the secure token endpoint, which is an
// OAuth-style surface and speaks snake_case. Each endpoint gets its own
// flat record rather than a shared embedded base, since the field sets
// overlap but rarely match exactly.

// ProviderUserInfo identifies one identity provider linked to an account.
type ProviderUserInfo struct {
	ProviderID  string `json:"providerId"`
	FederatedID string `json:"federatedId"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SignUpResponse is returned by SignUp and SignInAnonymous.
type SignUpResponse struct {
	Kind         string `json:"kind"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the token lifetime in seconds, as a decimal string.
	ExpiresIn string `json:"expiresIn"`
	Email     string `json:"email"`
	LocalID   string `json:"localId"`
}

// SignInPasswordResponse is returned by SignInWithPassword.
type SignInPasswordResponse struct {
	Kind         string `json:"kind"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Email        string `json:"email"`
	LocalID      string `json:"localId"`
	Registered   bool   `json:"registered"`
}

// CustomTokenResponse is returned by SignInWithCustomToken.
type CustomTokenResponse struct {
	Kind         string `json:"kind"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	IsNewUser    bool   `json:"isNewUser"`
}

// OAuthSignInResponse is returned by SignInWithOAuth and LinkWithOAuth.
type OAuthSignInResponse struct {
	Kind             string `json:"kind"`
	IDToken          string `json:"idToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        string `json:"expiresIn"`
	FederatedID      string `json:"federatedId"`
	ProviderID       string `json:"providerId"`
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	EmailVerified    bool   `json:"emailVerified"`
	OAuthIDToken     string `json:"oauthIdToken"`
	OAuthAccessToken string `json:"oauthAccessToken"`
	OAuthTokenSecret string `json:"oauthTokenSecret"`
	RawUserInfo      string `json:"rawUserInfo"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	FullName         string `json:"fullName"`
	DisplayName      string `json:"displayName"`
	PhotoURL         string `json:"photoUrl"`
	NeedConfirmation bool   `json:"needConfirmation"`
}

// RefreshResponse is returned by Refresh. The secure token endpoint speaks
// snake_case, unlike every other route.
type RefreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
	ProjectID    string `json:"project_id"`
}

// ProvidersResponse is returned by GetAssociatedProviders.
type ProvidersResponse struct {
	Kind         string   `json:"kind"`
	Registered   bool     `json:"registered"`
	AllProviders []string `json:"allProviders"`
	SessionID    string   `json:"sessionId"`
}

// ResetResponse is returned by SendPasswordResetEmail.
type ResetResponse struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
}

// VerifyResetResponse is returned by VerifyPasswordResetCode and
// ConfirmPasswordReset.
type VerifyResetResponse struct {
	Kind        string `json:"kind"`
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
}

// AccountUpdateResponse is returned by ChangeEmail, ChangePassword and
// LinkWithEmailPassword.
type AccountUpdateResponse struct {
	Kind             string             `json:"kind"`
	IDToken          string             `json:"idToken"`
	RefreshToken     string             `json:"refreshToken"`
	ExpiresIn        string             `json:"expiresIn"`
	LocalID          string             `json:"localId"`
	Email            string             `json:"email"`
	EmailVerified    bool               `json:"emailVerified"`
	PasswordHash     string             `json:"passwordHash"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo"`
}

// UpdateProfileResponse is returned by UpdateProfile.
type UpdateProfileResponse struct {
	Kind             string             `json:"kind"`
	IDToken          string             `json:"idToken"`
	RefreshToken     string             `json:"refreshToken"`
	ExpiresIn        string             `json:"expiresIn"`
	LocalID          string             `json:"localId"`
	Email            string             `json:"email"`
	DisplayName      string             `json:"displayName"`
	PhotoURL         string             `json:"photoUrl"`
	PasswordHash     string             `json:"passwordHash"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo"`
}

// UserRecord describes one account in a GetUserData response. Timestamps
// arrive as millisecond epoch strings and are kept verbatim.
type UserRecord struct {
	LocalID           string             `json:"localId"`
	Email             string             `json:"email"`
	EmailVerified     bool               `json:"emailVerified"`
	DisplayName       string             `json:"displayName"`
	PhotoURL          string             `json:"photoUrl"`
	PasswordHash      string             `json:"passwordHash"`
	PasswordUpdatedAt float64            `json:"passwordUpdatedAt"`
	ValidSince        string             `json:"validSince"`
	Disabled          bool               `json:"disabled"`
	LastLoginAt       string             `json:"lastLoginAt"`
	CreatedAt         string             `json:"createdAt"`
	CustomAuth        bool               `json:"customAuth"`
	ProviderUserInfo  []ProviderUserInfo `json:"providerUserInfo"`
}

// UserDataResponse is returned by GetUserData.
type UserDataResponse struct {
	Kind  string       `json:"kind"`
	Users []UserRecord `json:"users"`
}

// UnlinkResponse is returned by UnlinkProviders.
type UnlinkResponse struct {
	Kind             string             `json:"kind"`
	LocalID          string             `json:"localId"`
	Email            string             `json:"email"`
	EmailVerified    bool               `json:"emailVerified"`
	DisplayName      string             `json:"displayName"`
	PhotoURL         string             `json:"photoUrl"`
	PasswordHash     string             `json:"passwordHash"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo"`
}

// SendEmailVerificationResponse is returned by SendEmailVerification.
type SendEmailVerificationResponse struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
}

// ConfirmEmailVerificationResponse is returned by ConfirmEmailVerification.
type ConfirmEmailVerificationResponse struct {
	Kind             string             `json:"kind"`
	Email            string             `json:"email"`
	EmailVerified    bool               `json:"emailVerified"`
	DisplayName      string             `json:"displayName"`
	PhotoURL         string             `json:"photoUrl"`
	PasswordHash     string             `json:"passwordHash"`
	ProviderUserInfo []ProviderUserInfo `json:"providerUserInfo"`
}

// ProfileUpdate describes the changes UpdateProfile should apply. Zero
// values leave a field untouched; the Delete flags remove it.
type ProfileUpdate struct {
	DisplayName       string
	PhotoURL          string
	DeleteDisplayName bool
	DeletePhotoURL    bool
}

// EmulatorConfiguration is the auth emulator's project configuration.
type EmulatorConfiguration struct {
	SignIn struct {
		AllowDuplicateEmails bool `json:"allowDuplicateEmails"`
	} `json:"signIn"`
	UsageMode string `json:"usageMode"`
}
