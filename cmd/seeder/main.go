// Seeder loads the "Best of Enemies" demonstration charette into a
// running server: the historic 1971 Durham school desegregation summit,
// with participants, breakout rooms, scripted messages and analysis
// entries. Useful for demos and manual testing.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerURL string `envconfig:"SERVER_URL" default:"http://localhost:5000"`
	WsURL     string `envconfig:"WS_URL" default:"ws://localhost:5000/ws"`
	// Delay between scripted messages so the demo feels live.
	MessageDelay time.Duration `envconfig:"MESSAGE_DELAY" default:"50ms"`
}

type participant struct {
	UserName string
	Role     string
}

type scriptedMessage struct {
	RoomID   string
	Text     string
	UserName string
	Role     string
}

var demoParticipants = []participant{
	{"Ann Atwater", "participant"},
	{"C.P. Ellis", "participant"},
	{"Howard Fuller", "analyst"},
	{"Sarah Johnson", "participant"},
	{"Robert Williams", "participant"},
}

var demoMessages = []scriptedMessage{
	{"main", "Welcome everyone to this historic community summit. I'm Howard Fuller, and I'll be facilitating today's discussion.", "Howard Fuller", "analyst"},
	{"main", "The desegregation of our schools is a process we must face together, whatever our starting positions.", "Howard Fuller", "analyst"},
	{"main", "I'm here because our children deserve better schools and better resources.", "Ann Atwater", "participant"},
	{"main", "I came to make sure our community's concerns about this process are heard.", "C.P. Ellis", "participant"},
	{"room-1", "The Pearsall Plan effectively delayed meaningful integration for over a decade.", "Sarah Johnson", "participant"},
	{"room-1", "By 1971, pressure was mounting for real change in the Durham school system.", "Howard Fuller", "analyst"},
	{"room-2", "Many families saw desegregation as an opportunity for better resources and facilities.", "Ann Atwater", "participant"},
	{"room-2", "There were also real concerns about the loss of community schools.", "Robert Williams", "participant"},
	{"room-3", "Transportation and the logistics of busing students is a major constraint for the project.", "Sarah Johnson", "participant"},
	{"room-3", "Teacher reassignment is the hardest process: many educators lost leadership positions.", "Robert Williams", "participant"},
	{"main", "Our team has gathered enough perspectives; let's bring the findings back to the full group.", "Howard Fuller", "analyst"},
}

type analysisEntry struct {
	Type       string   `json:"type"`
	Content    string   `json:"content"`
	Keywords   []string `json:"keywords"`
	Confidence float64  `json:"confidence"`
}

var demoAnalysis = []analysisEntry{
	{"constraint", "Limited funding for school transportation and resources", []string{"funding", "transportation", "resources"}, 0.85},
	{"assumption", "All community members want immediate full integration", []string{"integration", "immediate", "community"}, 0.72},
	{"opportunity", "Cross-cultural dialogue can build understanding", []string{"dialogue", "understanding", "cultural"}, 0.91},
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	color.New(color.BgBlack, color.FgGreen).Println("🚀 Creating Durham School Desegregation Charette...")

	charetteID, err := createCharette(config.ServerURL)
	if err != nil {
		log.Fatalf("Failed to create charette: %v", err)
	}
	color.Green.Printf("✅ Created charette: %s\n", charetteID)

	for _, p := range demoParticipants {
		if err := post(config.ServerURL+"/api/charettes/"+charetteID+"/participants",
			map[string]string{"userName": p.UserName, "role": p.Role}, nil); err != nil {
			log.Fatalf("Failed to add participant %s: %v", p.UserName, err)
		}
	}
	color.Green.Printf("✅ Added %d participants\n", len(demoParticipants))

	for _, a := range demoAnalysis {
		if err := post(config.ServerURL+"/api/charettes/"+charetteID+"/analysis", a, nil); err != nil {
			log.Fatalf("Failed to add analysis entry: %v", err)
		}
	}
	color.Green.Printf("✅ Added %d analysis entries\n", len(demoAnalysis))

	if err := replay(config, charetteID); err != nil {
		log.Fatalf("Failed to replay discussion: %v", err)
	}

	color.New(color.BgBlack, color.FgGreen).
		Printf("🏁 Demo charette ready: %s/api/charettes/%s/report\n", config.ServerURL, charetteID)
}

// replay drives the live surface the way a real client would: one
// websocket connection sending the original socket.io event names.
func replay(config Config, charetteID string) error {
	conn, _, err := websocket.DefaultDialer.Dial(config.WsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	defer conn.Close()

	send := func(event string, data any) error {
		raw, err := sonic.Marshal(data)
		if err != nil {
			return err
		}
		return conn.WriteJSON(map[string]any{"event": event, "data": json.RawMessage(raw)})
	}

	if err := send("join-charette", map[string]string{"charetteId": charetteID}); err != nil {
		return err
	}
	if err := send("create-breakout-rooms", map[string]any{
		"charetteId": charetteID,
		"roomCount":  3,
		"questions": []string{
			"What led to the 1971 desegregation efforts?",
			"How do we address community concerns?",
			"How do we measure progress and success?",
		},
	}); err != nil {
		return err
	}

	for _, m := range demoMessages {
		if m.RoomID != "main" {
			if err := send("join-breakout-room", map[string]string{
				"charetteId": charetteID, "roomId": m.RoomID, "userName": m.UserName,
			}); err != nil {
				return err
			}
		}
		if err := send("chat-message", map[string]string{
			"charetteId": charetteID,
			"roomId":     m.RoomID,
			"message":    m.Text,
			"userName":   m.UserName,
			"role":       m.Role,
		}); err != nil {
			return err
		}
		time.Sleep(config.MessageDelay)
	}

	// Walk the charette through analysis and ideation so the report carries
	// recommendations.
	for i := 0; i < 3; i++ {
		if err := send("next-phase", map[string]string{"charetteId": charetteID}); err != nil {
			return err
		}
	}
	color.Green.Printf("✅ Replayed %d messages across plenary and breakout rooms\n", len(demoMessages))
	return nil
}

func createCharette(serverURL string) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	err := post(serverURL+"/api/charettes", map[string]string{
		"title":       "1971 Durham School Desegregation Summit",
		"description": "Historic community dialogue between civil rights activist Ann Atwater and KKK leader C.P. Ellis, co-chaired by Howard Fuller.",
	}, &created)
	return created.ID, err
}

func post(url string, body any, out any) error {
	raw, err := sonic.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s answered %s", url, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
