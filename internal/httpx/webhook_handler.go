package httpx

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// MessageHandler is the conversation engine's entry point as the transport
// sees it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, senderKey, text string, now time.Time) ([]string, error)
}

// WebhookHandler terminates the Twilio WhatsApp webhook: form in, TwiML out.
type WebhookHandler struct {
	Engine  MessageHandler
	Service string
}

func (h *WebhookHandler) Register(r *chi.Mux) {
	r.Get("/", h.home)
	r.Post("/whatsapp", h.whatsapp)
}

// twiml is the minimal response document Twilio expects back.
type twiml struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

func writeTwiML(w http.ResponseWriter, replies []string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(twiml{Messages: replies})
}

func (h *WebhookHandler) whatsapp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	from := r.PostFormValue("From")
	body := strings.TrimSpace(r.PostFormValue("Body"))
	if from == "" {
		http.Error(w, "missing sender", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	replies, err := h.Engine.HandleMessage(ctx, from, body, time.Now())
	if err != nil {
		// Operational failure: the turn did not complete, so the reply must
		// not pretend it did. Twilio still wants a 200 with a body.
		log.Printf("httpx: handle message from %s: %v", from, err)
		writeTwiML(w, []string{"Sorry, something went wrong. Please try again or type *HI* to start fresh."})
		return
	}
	writeTwiML(w, replies)
}

func (h *WebhookHandler) home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "online",
		"service": h.Service,
		"endpoints": map[string]string{
			"whatsapp": "/whatsapp (POST)",
		},
	})
}
