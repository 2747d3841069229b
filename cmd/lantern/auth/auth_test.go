package authcmder_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	authcmder "github.com/lanternhq/lantern/cmd/lantern/auth"
)

// newAuthCmd builds the auth command with the root command's persistent
// flags registered, since these specs execute it without the lantern root.
func newAuthCmd() *cobra.Command {
	cmd := authcmder.NewAuthCmd()
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .lantern/ config directory")
	return cmd
}

type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// fakeToolkit records every request and answers with the given JSON body.
func fakeToolkit(body string) (*httptest.Server, *[]capturedRequest) {
	var mu sync.Mutex
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)

		mu.Lock()
		captured = append(captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   decoded,
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))

	return srv, &captured
}

var _ = Describe("NewAuthCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := authcmder.NewAuthCmd()
		Expect(cmd.Use).To(Equal("auth"))
	})

	It("has signup, signin, refresh, and reset subcommands", func() {
		cmd := authcmder.NewAuthCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("signup", "signin", "refresh", "reset"))
	})
})

var _ = Describe("Auth command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "lantern-auth-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.MkdirAll(filepath.Join(tmpDir, ".lantern"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("signs up against the configured endpoint", func() {
		srv, captured := fakeToolkit(`{"idToken": "id", "refreshToken": "rt", "expiresIn": "3600", "email": "a@b.c", "localId": "uid"}`)
		defer srv.Close()

		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signup", "a@b.c", "pw", "--api-key", "k", "--auth-url", srv.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect(*captured).To(HaveLen(1))
		Expect((*captured)[0].Path).To(Equal("/v1/accounts:signUp"))
		Expect((*captured)[0].Query.Get("key")).To(Equal("k"))
		Expect((*captured)[0].Body).To(HaveKeyWithValue("email", "a@b.c"))
		Expect((*captured)[0].Body).To(HaveKeyWithValue("returnSecureToken", true))
	})

	It("creates anonymous accounts without credentials", func() {
		srv, captured := fakeToolkit(`{"idToken": "id", "refreshToken": "rt", "expiresIn": "3600", "localId": "uid"}`)
		defer srv.Close()

		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signup", "--anonymous", "--api-key", "k", "--auth-url", srv.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect((*captured)[0].Body).NotTo(HaveKey("email"))
	})

	It("signs in with a password", func() {
		srv, captured := fakeToolkit(`{"idToken": "id", "refreshToken": "rt", "expiresIn": "3600", "email": "a@b.c", "registered": true}`)
		defer srv.Close()

		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signin", "a@b.c", "pw", "--api-key", "k", "--auth-url", srv.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect((*captured)[0].Path).To(Equal("/v1/accounts:signInWithPassword"))
	})

	It("requires credentials for signin without a custom token", func() {
		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signin", "--api-key", "k"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("fails without an API key", func() {
		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signup", "a@b.c", "pw"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("adds emulator route prefixes when the emulator flag is set", func() {
		srv, captured := fakeToolkit(`{"idToken": "id", "refreshToken": "rt", "expiresIn": "3600", "email": "a@b.c", "localId": "uid"}`)
		defer srv.Close()

		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signup", "a@b.c", "pw", "--api-key", "k", "--auth-url", srv.URL, "--emulator"})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect((*captured)[0].Path).To(Equal("/identitytoolkit.googleapis.com/v1/accounts:signUp"))
	})

	It("routes to the emulator host from the environment", func() {
		srv, captured := fakeToolkit(`{"idToken": "id", "refreshToken": "rt", "expiresIn": "3600", "email": "a@b.c", "localId": "uid"}`)
		defer srv.Close()

		host := srv.Listener.Addr().String()
		GinkgoT().Setenv("FIREBASE_AUTH_EMULATOR_HOST", host)

		cmd := newAuthCmd()
		cmd.SetArgs([]string{"signup", "a@b.c", "pw", "--api-key", "k"})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect((*captured)[0].Path).To(Equal("/identitytoolkit.googleapis.com/v1/accounts:signUp"))
	})

	It("requires a refresh token argument", func() {
		cmd := newAuthCmd()
		cmd.SetArgs([]string{"refresh"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
