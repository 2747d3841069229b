package watchcmder_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	watchcmder "github.com/lanternhq/lantern/cmd/lantern/watch"
	"github.com/lanternhq/lantern/pkg/recorder/sqlite"
)

// newWatchCmd builds the watch command with the root command's persistent
// flags registered, since these specs execute it without the lantern root.
func newWatchCmd() *cobra.Command {
	cmd := watchcmder.NewWatchCmd()
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .lantern/ config directory")
	return cmd
}

// endingStream serves the given SSE blocks and then closes the stream,
// so a watch runs to natural completion.
func endingStream(blocks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		Expect(ok).To(BeTrue())

		for _, block := range blocks {
			fmt.Fprint(w, block)
			flusher.Flush()
		}
	}))
}

var _ = Describe("NewWatchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := watchcmder.NewWatchCmd()
		Expect(cmd.Use).To(Equal("watch <path>"))
	})

	It("requires exactly one argument", func() {
		cmd := watchcmder.NewWatchCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"/a", "/b"})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"/a"})).NotTo(HaveOccurred())
	})
})

var _ = Describe("Watch command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "lantern-watch-test-*")
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

	It("streams events until the server ends the stream", func() {
		srv := endingStream(
			"event: put\ndata: {\"path\": \"/\", \"data\": {\"topic\": \"general\"}}\n\n",
			"event: keep-alive\ndata: null\n\n",
		)
		defer srv.Close()

		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms/lobby", "--database-url", srv.URL})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})

	It("records events to the sqlite backend", func() {
		srv := endingStream(
			"event: put\ndata: {\"path\": \"/\", \"data\": {\"topic\": \"general\"}}\n\n",
			"event: patch\ndata: {\"path\": \"/members\", \"data\": {\"alice\": true}}\n\n",
		)
		defer srv.Close()

		dbPath := filepath.Join(tmpDir, "events.db")

		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms/lobby", "--database-url", srv.URL, "--record", "--sqlite", dbPath})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		store, err := sqlite.NewStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		sessions, err := store.Sessions(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(1))

		records, err := store.Session(context.Background(), sessions[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].EventType).To(Equal("put"))
		Expect(records[1].EventType).To(Equal("patch"))
		Expect(records[1].Path).To(Equal("/members"))
	})

	It("fans JSON logs out to the --log-file", func() {
		srv := endingStream(
			"event: put\ndata: {\"path\": \"/\", \"data\": null}\n\n",
		)
		defer srv.Close()

		dbPath := filepath.Join(tmpDir, "events.db")
		logPath := filepath.Join(tmpDir, "watch.log")

		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms", "--database-url", srv.URL, "--record", "--sqlite", dbPath, "--log-file", logPath})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		contents, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())

		var entry map[string]any
		Expect(json.Unmarshal([]byte(strings.SplitN(strings.TrimSpace(string(contents)), "\n", 2)[0]), &entry)).To(Succeed())
		Expect(entry["msg"]).To(Equal("recording to sqlite"))
		Expect(entry["path"]).To(Equal(dbPath))
	})

	It("rejects an unknown recorder driver", func() {
		srv := endingStream()
		defer srv.Close()

		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms", "--database-url", srv.URL, "--record", "--recorder-driver", "csv"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("surfaces stream connection failures", func() {
		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms", "--database-url", "http://127.0.0.1:1"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})

	It("fails without a database URL", func() {
		cmd := newWatchCmd()
		cmd.SetArgs([]string{"/rooms"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
