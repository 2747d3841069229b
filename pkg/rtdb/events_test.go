package rtdb_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lanternhq/lantern/pkg/rtdb"
	"github.com/lanternhq/lantern/pkg/sse"
)

var _ = Describe("MapMessage", func() {
	It("maps a put message to a put event with path and data", func() {
		ev, err := rtdb.MapMessage(&sse.Message{
			Event: "put",
			Data:  `{"path": "/a/b", "data": {"x": 1}}`,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal(rtdb.EventTypePut))
		Expect(ev.Path).To(Equal("/a/b"))
		Expect(ev.Data).To(Equal(map[string]any{"x": float64(1)}))
	})

	It("maps a patch message with a partial merge map", func() {
		ev, err := rtdb.MapMessage(&sse.Message{
			Event: "patch",
			Data:  `{"path": "/", "data": {"a/a1": "new1"}}`,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal(rtdb.EventTypePatch))
		Expect(ev.Path).To(Equal("/"))
		Expect(ev.Data).To(HaveKeyWithValue("a/a1", "new1"))
	})

	It("maps a put with null data (deletion)", func() {
		ev, err := rtdb.MapMessage(&sse.Message{
			Event: "put",
			Data:  `{"path": "/bbb/a", "data": null}`,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Path).To(Equal("/bbb/a"))
		Expect(ev.Data).To(BeNil())
	})

	It("strips any payload from keep-alive events", func() {
		ev, err := rtdb.MapMessage(&sse.Message{Event: "keep-alive", Data: `{"noise": true}`})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal(rtdb.EventTypeKeepAlive))
		Expect(ev.Path).To(BeEmpty())
		Expect(ev.Data).To(BeNil())
	})

	It("attaches data to auth_revoked events when present", func() {
		ev, err := rtdb.MapMessage(&sse.Message{Event: "auth_revoked", Data: `"credential is no longer valid"`})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal(rtdb.EventTypeAuthRevoked))
		Expect(ev.Data).To(Equal("credential is no longer valid"))
	})

	It("maps cancel events without data", func() {
		ev, err := rtdb.MapMessage(&sse.Message{Event: "cancel", Data: "null"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal(rtdb.EventTypeCancel))
		Expect(ev.Data).To(BeNil())
	})

	It("rejects unknown event names with a ProtocolError", func() {
		_, err := rtdb.MapMessage(&sse.Message{Event: "bogus", Data: "{}"})

		var perr *rtdb.ProtocolError
		Expect(err).To(BeAssignableToTypeOf(perr))
		Expect(err.(*rtdb.ProtocolError).Event).To(Equal("bogus"))
	})

	It("rejects a put without a data payload", func() {
		_, err := rtdb.MapMessage(&sse.Message{Event: "put"})

		var perr *rtdb.ProtocolError
		Expect(err).To(BeAssignableToTypeOf(perr))
	})

	It("rejects a put whose payload is not an object", func() {
		_, err := rtdb.MapMessage(&sse.Message{Event: "put", Data: `"plain string"`})

		var perr *rtdb.ProtocolError
		Expect(err).To(BeAssignableToTypeOf(perr))
	})

	It("rejects a put whose payload object has no path", func() {
		_, err := rtdb.MapMessage(&sse.Message{Event: "put", Data: `{"data": {"x": 1}}`})

		var perr *rtdb.ProtocolError
		Expect(err).To(BeAssignableToTypeOf(perr))
	})
})

// streamingDatabase serves the given SSE blocks at any .json path, one
// flush per block, then keeps the connection open until the test ends.
func streamingDatabase(blocks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		Expect(ok).To(BeTrue())

		for _, block := range blocks {
			fmt.Fprint(w, block)
			flusher.Flush()
		}

		<-r.Context().Done()
	}))
}

var _ = Describe("Subscription", func() {
	Context("basic listen", func() {
		It("delivers one put event and swallows the keep-alive", func() {
			server := streamingDatabase(
				"event: put\ndata: {\"path\":\"/\",\"data\":{\"a\":1}}\n\n",
				"event: keep-alive\ndata: null\n\n",
			)
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Child("aaa").Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			var ev rtdb.Event
			Eventually(sub.Events()).Should(Receive(&ev))
			Expect(ev.Type).To(Equal(rtdb.EventTypePut))
			Expect(ev.Path).To(Equal("/"))
			Expect(ev.Data).To(Equal(map[string]any{"a": float64(1)}))

			Consistently(sub.Events()).ShouldNot(Receive())
		})

		It("requests the node path with filters and auth", func() {
			var gotPath string
			var gotQuery map[string][]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				w.Header().Set("Content-Type", "text/event-stream")
			}))
			defer server.Close()

			db := rtdb.New(server.URL, rtdb.WithIDToken("tok"))
			sub, err := db.Root().Child("rooms", "lobby").OrderBy("$key").Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			sub.Close()

			Expect(gotPath).To(Equal("/rooms/lobby.json"))
			Expect(gotQuery["auth"]).To(Equal([]string{"tok"}))
			Expect(gotQuery["orderBy"]).To(Equal([]string{`"$key"`}))
		})

		It("streams the node path when the database URL carries a query", func() {
			var gotPath string
			var gotQuery map[string][]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				w.Header().Set("Content-Type", "text/event-stream")
			}))
			defer server.Close()

			db := rtdb.New(server.URL + "?ns=demo")
			sub, err := db.Root().Child("rooms").Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			sub.Close()

			Expect(gotPath).To(Equal("/rooms.json"))
			Expect(gotQuery["ns"]).To(Equal([]string{"demo"}))
		})
	})

	Context("ordering under queueing", func() {
		It("delivers events in arrival order even when draining late", func() {
			server := streamingDatabase(
				"event: put\ndata: {\"path\":\"/1\",\"data\":1}\n\n",
				"event: put\ndata: {\"path\":\"/2\",\"data\":2}\n\n",
				"event: put\ndata: {\"path\":\"/3\",\"data\":3}\n\n",
			)
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			// Let every event arrive and queue before draining.
			time.Sleep(100 * time.Millisecond)

			var paths []string
			for range 3 {
				var ev rtdb.Event
				Eventually(sub.Events()).Should(Receive(&ev))
				paths = append(paths, ev.Path)
			}
			Expect(paths).To(Equal([]string{"/1", "/2", "/3"}))
		})
	})

	Context("connect failure", func() {
		It("fails Watch with a ConnectError and delivers nothing", func() {
			db := rtdb.New("http://127.0.0.1:1")

			sub, err := db.Root().Watch(context.Background())
			Expect(sub).To(BeNil())

			var cerr *sse.ConnectError
			Expect(err).To(BeAssignableToTypeOf(cerr))
		})

		It("fails Watch when the server rejects the stream", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "denied", http.StatusForbidden)
			}))
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Watch(context.Background())
			Expect(sub).To(BeNil())

			var cerr *sse.ConnectError
			Expect(err).To(BeAssignableToTypeOf(cerr))
			Expect(err.(*sse.ConnectError).Status).To(Equal(http.StatusForbidden))
		})
	})

	Context("protocol violations", func() {
		It("poisons the subscription on an unknown event kind", func() {
			server := streamingDatabase("event: bogus\ndata: {}\n\n")
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			Eventually(sub.Events()).Should(BeClosed())

			var perr *rtdb.ProtocolError
			Expect(sub.Err()).To(BeAssignableToTypeOf(perr))
		})
	})

	Context("shutdown", func() {
		It("closes the events channel and delivers nothing after Close", func() {
			server := streamingDatabase("event: put\ndata: {\"path\":\"/x\",\"data\":1}\n\n")
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())

			var ev rtdb.Event
			Eventually(sub.Events()).Should(Receive(&ev))

			sub.Close()
			Eventually(sub.Events()).Should(BeClosed())
			Expect(sub.Err()).NotTo(HaveOccurred())

			// Idempotent.
			sub.Close()
		})

		It("ends cleanly when the server closes the stream", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				fmt.Fprint(w, "event: put\ndata: {\"path\":\"/\",\"data\":null}\n\n")
			}))
			defer server.Close()

			sub, err := rtdb.New(server.URL).Root().Watch(context.Background())
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			var ev rtdb.Event
			Eventually(sub.Events()).Should(Receive(&ev))
			Eventually(sub.Events()).Should(BeClosed())
			Expect(sub.Err()).NotTo(HaveOccurred())
		})
	})
})
