package auth_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lanternhq/lantern/pkg/auth"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

// fakeToolkit answers every request with the given status and body and
// records what it saw.
func fakeToolkit(status int, body string) (*httptest.Server, *[]capturedRequest) {
	captured := &[]capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		*captured = append(*captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(raw),
		})
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))

	return server, captured
}

var _ = Describe("Client", func() {
	Context("sign up and sign in", func() {
		It("posts signUp with credentials and the API key", func() {
			server, captured := fakeToolkit(http.StatusOK, `{
				"kind": "identitytoolkit#SignupNewUserResponse",
				"idToken": "tok123",
				"refreshToken": "ref123",
				"expiresIn": "3600",
				"email": "kevin@home.com",
				"localId": "uid1"
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			user, err := client.SignUp(context.Background(), "kevin@home.com", "securepassword")
			Expect(err).NotTo(HaveOccurred())

			Expect(*captured).To(HaveLen(1))
			request := (*captured)[0]
			Expect(request.Method).To(Equal(http.MethodPost))
			Expect(request.Path).To(Equal("/v1/accounts:signUp"))
			Expect(request.Query["key"]).To(Equal([]string{"api-key"}))
			Expect(request.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(request.Body).To(MatchJSON(`{
				"email": "kevin@home.com",
				"password": "securepassword",
				"returnSecureToken": true
			}`))

			Expect(user.IDToken).To(Equal("tok123"))
			Expect(user.RefreshToken).To(Equal("ref123"))
			Expect(user.ExpiresIn).To(Equal("3600"))
			Expect(user.LocalID).To(Equal("uid1"))
		})

		It("posts signInWithPassword and decodes the registered flag", func() {
			server, captured := fakeToolkit(http.StatusOK, `{
				"idToken": "tok",
				"refreshToken": "ref",
				"expiresIn": "3600",
				"email": "kevin@home.com",
				"localId": "uid1",
				"registered": true
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			user, err := client.SignInWithPassword(context.Background(), "kevin@home.com", "securepassword")
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:signInWithPassword"))
			Expect(user.Registered).To(BeTrue())
		})

		It("signs in anonymously with only returnSecureToken", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"idToken": "tok", "localId": "anon1"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			user, err := client.SignInAnonymous(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:signUp"))
			Expect((*captured)[0].Body).To(MatchJSON(`{"returnSecureToken": true}`))
			Expect(user.LocalID).To(Equal("anon1"))
		})

		It("signs in with a custom token", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"idToken": "tok", "isNewUser": true}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			user, err := client.SignInWithCustomToken(context.Background(), "custom-token")
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:signInWithCustomToken"))
			Expect((*captured)[0].Body).To(MatchJSON(`{"token": "custom-token", "returnSecureToken": true}`))
			Expect(user.IsNewUser).To(BeTrue())
		})

		It("builds the IdP post body for OAuth sign-in", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"idToken": "tok", "providerId": "google.com"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			user, err := client.SignInWithOAuth(context.Background(), "http://localhost", "idp-token", "google.com", true)
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:signInWithIdp"))
			Expect((*captured)[0].Body).To(MatchJSON(`{
				"requestUri": "http://localhost",
				"postBody": "id_token=idp-token&providerId=google.com",
				"returnSecureToken": true,
				"returnIdpCredential": true
			}`))
			Expect(user.ProviderID).To(Equal("google.com"))
		})
	})

	Context("token refresh", func() {
		It("posts snake_case grant fields to the secure token endpoint", func() {
			server, captured := fakeToolkit(http.StatusOK, `{
				"id_token": "new-tok",
				"refresh_token": "new-ref",
				"expires_in": "3600",
				"token_type": "Bearer",
				"user_id": "uid1",
				"project_id": "demo"
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithSecureTokenURL(server.URL))
			refreshed, err := client.Refresh(context.Background(), "old-ref")
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/token"))
			Expect((*captured)[0].Body).To(MatchJSON(`{
				"refresh_token": "old-ref",
				"grant_type": "refresh_token"
			}`))
			Expect(refreshed.IDToken).To(Equal("new-tok"))
			Expect(refreshed.TokenType).To(Equal("Bearer"))
			Expect(refreshed.UserID).To(Equal("uid1"))
		})
	})

	Context("account management", func() {
		It("sends the locale header on password reset emails", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"email": "kevin@home.com"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			_, err := client.SendPasswordResetEmail(context.Background(), "kevin@home.com", "nl")
			Expect(err).NotTo(HaveOccurred())

			request := (*captured)[0]
			Expect(request.Path).To(Equal("/v1/accounts:sendOobCode"))
			Expect(request.Header.Get("X-Firebase-Locale")).To(Equal("nl"))
			Expect(request.Body).To(MatchJSON(`{
				"requestType": "PASSWORD_RESET",
				"email": "kevin@home.com"
			}`))
		})

		It("omits the locale header when no locale is given", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"email": "kevin@home.com"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			_, err := client.SendEmailVerification(context.Background(), "tok", "")
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Header.Values("X-Firebase-Locale")).To(BeEmpty())
		})

		It("updates the profile and collects delete attributes", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"localId": "uid1", "displayName": "Kevin"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			updated, err := client.UpdateProfile(context.Background(), "tok", auth.ProfileUpdate{
				DisplayName:    "Kevin",
				DeletePhotoURL: true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:update"))
			Expect((*captured)[0].Body).To(MatchJSON(`{
				"idToken": "tok",
				"returnSecureToken": true,
				"displayName": "Kevin",
				"deleteAttribute": ["PHOTO_URL"]
			}`))
			Expect(updated.DisplayName).To(Equal("Kevin"))
		})

		It("looks up user data including linked providers", func() {
			server, _ := fakeToolkit(http.StatusOK, `{
				"users": [{
					"localId": "uid1",
					"email": "kevin@home.com",
					"emailVerified": true,
					"providerUserInfo": [{"providerId": "password", "federatedId": "kevin@home.com"}]
				}]
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			data, err := client.GetUserData(context.Background(), "tok")
			Expect(err).NotTo(HaveOccurred())

			Expect(data.Users).To(HaveLen(1))
			Expect(data.Users[0].EmailVerified).To(BeTrue())
			Expect(data.Users[0].ProviderUserInfo).To(HaveLen(1))
			Expect(data.Users[0].ProviderUserInfo[0].ProviderID).To(Equal("password"))
		})

		It("deletes an account without decoding a response", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"kind": "identitytoolkit#DeleteAccountResponse"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			Expect(client.DeleteAccount(context.Background(), "tok")).To(Succeed())

			Expect((*captured)[0].Path).To(Equal("/v1/accounts:delete"))
			Expect((*captured)[0].Body).To(MatchJSON(`{"idToken": "tok"}`))
		})

		It("unlinks providers via the update route", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"localId": "uid1"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			_, err := client.UnlinkProviders(context.Background(), "tok", []string{"google.com"})
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Body).To(MatchJSON(`{
				"idToken": "tok",
				"deleteProvider": ["google.com"]
			}`))
		})
	})

	Context("failures", func() {
		It("surfaces the upstream error code in an APIError", func() {
			server, _ := fakeToolkit(http.StatusBadRequest, `{
				"error": {"code": 400, "message": "EMAIL_EXISTS"}
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			_, err := client.SignUp(context.Background(), "kevin@home.com", "securepassword")

			var apiErr *auth.APIError
			Expect(err).To(BeAssignableToTypeOf(apiErr))
			apiErr = err.(*auth.APIError)
			Expect(apiErr.Status).To(Equal(http.StatusBadRequest))
			Expect(apiErr.Message).To(Equal("EMAIL_EXISTS"))
			Expect(apiErr.Route).To(Equal("/accounts:signUp"))
		})

		It("returns an APIError even when the failure body is not JSON", func() {
			server, _ := fakeToolkit(http.StatusInternalServerError, "boom")
			defer server.Close()

			client := auth.New("api-key", auth.WithIdentityToolkitURL(server.URL))
			_, err := client.SignInAnonymous(context.Background())

			var apiErr *auth.APIError
			Expect(err).To(BeAssignableToTypeOf(apiErr))
			Expect(err.(*auth.APIError).Message).To(BeEmpty())
		})
	})

	Context("emulator", func() {
		It("prefixes Identity Toolkit routes when pointed at the emulator", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"idToken": "tok"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithEmulator(server.URL))
			_, err := client.SignInAnonymous(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/identitytoolkit.googleapis.com/v1/accounts:signUp"))
		})

		It("prefixes the token route when pointed at the emulator", func() {
			server, captured := fakeToolkit(http.StatusOK, `{"id_token": "tok"}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithEmulator(server.URL))
			_, err := client.Refresh(context.Background(), "ref")
			Expect(err).NotTo(HaveOccurred())

			Expect((*captured)[0].Path).To(Equal("/securetoken.googleapis.com/v1/token"))
		})

		It("clears accounts through the emulator admin route", func() {
			server, captured := fakeToolkit(http.StatusOK, `{}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithEmulator(server.URL))
			Expect(client.EmulatorClearAccounts(context.Background(), "demo-project")).To(Succeed())

			request := (*captured)[0]
			Expect(request.Method).To(Equal(http.MethodDelete))
			Expect(request.Path).To(Equal("/emulator/v1/projects/demo-project/accounts"))
		})

		It("updates the emulator configuration", func() {
			server, captured := fakeToolkit(http.StatusOK, `{
				"signIn": {"allowDuplicateEmails": true},
				"usageMode": "DEFAULT"
			}`)
			defer server.Close()

			client := auth.New("api-key", auth.WithEmulator(server.URL))
			conf, err := client.EmulatorUpdateConfiguration(context.Background(), "demo-project", true)
			Expect(err).NotTo(HaveOccurred())

			request := (*captured)[0]
			Expect(request.Method).To(Equal(http.MethodPatch))
			Expect(request.Path).To(Equal("/emulator/v1/projects/demo-project/config"))
			Expect(request.Body).To(MatchJSON(`{"signIn": {"allowDuplicateEmails": true}}`))
			Expect(conf.SignIn.AllowDuplicateEmails).To(BeTrue())
			Expect(conf.UsageMode).To(Equal("DEFAULT"))
		})
	})
})
