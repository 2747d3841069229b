package eventstream_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lanternhq/lantern/pkg/eventstream"
	"github.com/lanternhq/lantern/pkg/rtdb"
)

var _ = Describe("Event", func() {
	It("marshals ChangeEvent with expected top-level keys", func() {
		event := eventstream.NewChangeEvent(
			eventstream.EventSource{
				DatabaseURL: "https://demo.firebaseio.com",
				WatchPath:   "/rooms",
				SessionID:   "session-1",
			},
			rtdb.Event{
				Type: rtdb.EventTypePut,
				Path: "/lobby",
				Data: map[string]any{"topic": "general"},
			},
		)

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKey("change"))
	})

	It("fills the envelope from the database event", func() {
		event := eventstream.NewChangeEvent(
			eventstream.EventSource{WatchPath: "/rooms"},
			rtdb.Event{Type: rtdb.EventTypePatch, Path: "/lobby", Data: map[string]any{"n": 1.0}},
		)

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeChangeObserved))
		Expect(event.EventID).To(HavePrefix("evt_"))
		Expect(event.EmittedAt).NotTo(BeZero())
		Expect(event.Change.Kind).To(Equal("patch"))
		Expect(event.Change.Path).To(Equal("/lobby"))
		Expect(event.Change.Data).To(Equal(map[string]any{"n": 1.0}))
	})

	It("mints a distinct event ID per envelope", func() {
		source := eventstream.EventSource{WatchPath: "/"}
		first := eventstream.NewChangeEvent(source, rtdb.Event{Type: rtdb.EventTypePut, Path: "/"})
		second := eventstream.NewChangeEvent(source, rtdb.Event{Type: rtdb.EventTypePut, Path: "/"})

		Expect(first.EventID).NotTo(Equal(second.EventID))
	})

	It("provides ErrNilChangeEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilChangeEvent).NotTo(BeNil())
		Expect(eventstream.ErrNilChangeEvent).To(MatchError("nil change event"))
	})
})
