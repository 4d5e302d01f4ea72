package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// questHandlerMocks bundles the fakes behind a test engine so table
// cases can arrange state before the request fires.
type questHandlerMocks struct {
	gen     *quest.MockGenerator
	store   *quest.MockStore
	locker  *quest.MockLocker
	battles *quest.MockBattles
	ledger  *quest.MockLedger
	journal *quest.MockJournal
	events  *quest.MockPublisher
}

func newTestQuestHandler(t *testing.T, logger *slog.Logger) (*QuestHandler, *questHandlerMocks) {
	t.Helper()
	m := &questHandlerMocks{
		gen:     quest.NewMockGenerator(),
		store:   quest.NewMockStore(),
		locker:  quest.NewMockLocker(),
		battles: quest.NewMockBattles(),
		ledger:  quest.NewMockLedger(),
		journal: quest.NewMockJournal(),
		events:  quest.NewMockPublisher(),
	}
	engine, err := quest.New(quest.Options{
		Store:     m.store,
		Locker:    m.locker,
		Generator: m.gen,
		Battles:   m.battles,
		Ledger:    m.ledger,
		Journal:   m.journal,
		Events:    m.events,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}
	return NewQuestHandler(engine, logger), m
}

// seedSession plants a mid-quest player so action routes have a
// session to load.
func seedSession(m *questHandlerMocks, id string) *quest.Player {
	p := quest.NewPlayer(id, "Ryo", quest.NewRand())
	p.Goal = "Recover the stolen temple bell."
	p.Scene = "The bell tower stands empty against the dusk."
	m.store.Put(p)
	return p
}

func TestQuestHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		mockSetup      func(*questHandlerMocks)
		expectedStatus int
		expectedError  string
	}{
		{
			name:   "successful quest start",
			method: http.MethodPost,
			path:   "/v1/quests",
			body:   StartQuestRequest{Name: "Ryo"},
			mockSetup: func(m *questHandlerMocks) {
				m.gen.Enqueue(
					"Recover the stolen temple bell.",
					"You stand at the mountain gate.\n\nYour Choices:\n1. Enter the gate\n2. Circle the wall",
				)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "start without body",
			method:         http.MethodPost,
			path:           "/v1/quests",
			body:           nil,
			mockSetup:      func(m *questHandlerMocks) { m.gen.Enqueue("Find the hidden spring.", "A dry riverbed points uphill.") },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "method not allowed on collection",
			method:         http.MethodGet,
			path:           "/v1/quests",
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Supported methods: POST",
		},
		{
			name:           "invalid JSON on start",
			method:         http.MethodPost,
			path:           "/v1/quests",
			body:           "invalid json",
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid JSON in request body",
		},
		{
			name:   "successful action",
			method: http.MethodPost,
			path:   "/v1/quests/s1/actions",
			body:   ActionRequest{Input: "walk through the gate"},
			mockSetup: func(m *questHandlerMocks) {
				seedSession(m, "s1")
				m.gen.Enqueue(
					"No",
					"The gate creaks open onto a moss-lined path.\n\nYour Choices:\n1. Follow the path\n2. Rest beneath the pine",
				)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "action on missing session",
			method:         http.MethodPost,
			path:           "/v1/quests/ghost/actions",
			body:           ActionRequest{Input: "walk north"},
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusNotFound,
			expectedError:  "You are not currently on a quest. Start a new journey first.",
		},
		{
			name:   "empty action",
			method: http.MethodPost,
			path:   "/v1/quests/s1/actions",
			body:   ActionRequest{Input: "   "},
			mockSetup: func(m *questHandlerMocks) {
				seedSession(m, "s1")
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Action cannot be empty.",
		},
		{
			name:   "busy session conflicts",
			method: http.MethodPost,
			path:   "/v1/quests/s1/actions",
			body:   ActionRequest{Input: "walk"},
			mockSetup: func(m *questHandlerMocks) {
				seedSession(m, "s1")
				m.locker.SetBusy(true)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Your quest is still processing the previous action. Please wait.",
		},
		{
			name:   "generation failure",
			method: http.MethodPost,
			path:   "/v1/quests/s1/actions",
			body:   ActionRequest{Input: "walk"},
			mockSetup: func(m *questHandlerMocks) {
				seedSession(m, "s1")
				m.gen.SetError(errors.New("model offline"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to process quest request. Please try again.",
		},
		{
			name:           "status of missing session",
			method:         http.MethodGet,
			path:           "/v1/quests/ghost",
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusNotFound,
			expectedError:  "You are not currently on a quest. Start a new journey first.",
		},
		{
			name:           "method not allowed on session",
			method:         http.MethodPut,
			path:           "/v1/quests/s1",
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Supported methods: GET, DELETE",
		},
		{
			name:           "unknown endpoint",
			method:         http.MethodPost,
			path:           "/v1/quests/s1/dance",
			mockSetup:      func(m *questHandlerMocks) {},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Unknown quest endpoint.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mocks := newTestQuestHandler(t, logger)
			tt.mockSetup(mocks)

			var body []byte
			if tt.body != nil {
				if str, ok := tt.body.(string); ok {
					body = []byte(str)
				} else {
					var err error
					body, err = json.Marshal(tt.body)
					if err != nil {
						t.Fatalf("Failed to marshal request body: %v", err)
					}
				}
			}

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			if tt.expectedError != "" {
				var errorResponse ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&errorResponse); err != nil {
					t.Fatalf("Failed to decode error response: %v", err)
				}
				if errorResponse.Error != tt.expectedError {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedError, errorResponse.Error)
				}
				return
			}

			var reply quest.Reply
			if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
				t.Fatalf("Failed to decode quest reply: %v", err)
			}
			if reply.Text == "" {
				t.Error("Expected non-empty reply text")
			}
		})
	}
}

func TestQuestHandler_StartQuestFlow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, mocks := newTestQuestHandler(t, logger)
	mocks.gen.Enqueue(
		"Recover the stolen temple bell.",
		"You stand at the mountain gate, mist curling around the stones.\n\nYour Choices:\n1. Enter the gate\n2. Circle the wall",
	)

	body := bytes.NewBufferString(`{"session_id":"s1","name":"Ryo"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/quests", body)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var reply quest.Reply
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&reply))
	assert.Contains(t, reply.Text, "Your Zen Quest begins!")
	assert.Contains(t, reply.Text, "Recover the stolen temple bell.")
	assert.Equal(t, []string{"Enter the gate", "Circle the wall"}, reply.Choices)
	if assert.NotNil(t, reply.Player) {
		assert.Equal(t, "s1", reply.Player.ID)
		assert.Equal(t, "Ryo", reply.Player.Name)
	}

	assert.Equal(t, 2, mocks.gen.CallCount(), "goal and opening scene should each generate once")
	assert.Equal(t, 1, mocks.store.Len(), "session should be persisted")
	assert.Contains(t, mocks.events.Types(), quest.EventQuestStarted)
	assert.Equal(t, 1, mocks.journal.SceneCount("s1"), "opening scene should be journaled")
}

func TestQuestHandler_ActionAdvancesStage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, mocks := newTestQuestHandler(t, logger)
	seedSession(mocks, "s2")
	mocks.gen.Enqueue(
		"No",
		"The gate creaks open onto a moss-lined path.\n\nYour Choices:\n1. Follow the path\n2. Rest beneath the pine",
	)

	body := bytes.NewBufferString(`{"input":"walk through the gate"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/quests/s2/actions", body)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var reply quest.Reply
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&reply))
	assert.Contains(t, reply.Text, "moss-lined path")
	assert.Len(t, reply.Choices, 2)
	assert.False(t, reply.Ended)

	stored := mocks.store.Get("s2")
	if assert.NotNil(t, stored) {
		assert.Equal(t, 1, stored.Stage, "one scene should advance one stage")
	}
	assert.Contains(t, mocks.events.Types(), quest.EventSceneDelivered)
}

func TestQuestHandler_Meditate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, mocks := newTestQuestHandler(t, logger)
	p := quest.NewPlayer("s3", "Ryo", quest.NewRand())
	p.Goal = "Recover the stolen temple bell."
	p.Scene = "The bell tower stands empty."
	p.HP = 50
	p.Karma = 40
	mocks.store.Put(p)
	mocks.gen.Enqueue("Breath settles; the valley goes quiet.")

	req := httptest.NewRequest(http.MethodPost, "/v1/quests/s3/meditate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var reply quest.Reply
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&reply))
	assert.Equal(t, "Breath settles; the valley goes quiet.", reply.Text)
	assert.Contains(t, reply.Notices, "Your karma and HP have slightly improved.")

	stored := mocks.store.Get("s3")
	if assert.NotNil(t, stored) {
		assert.Equal(t, 60, stored.HP)
		assert.Equal(t, 45, stored.Karma)
		assert.Equal(t, 0, stored.Stage, "meditation should not advance the stage")
	}
	assert.Contains(t, mocks.events.Types(), quest.EventMeditated)
}

func TestQuestHandler_Status(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, mocks := newTestQuestHandler(t, logger)
	p := seedSession(mocks, "s4")
	p.Stage = 10
	p.TotalStages = 40
	mocks.store.Put(p)
	mocks.ledger.SetPoints("s4", 230)
	_ = mocks.journal.Append(context.Background(), "s4", "First scene.")
	_ = mocks.journal.Append(context.Background(), "s4", "Second scene.")

	req := httptest.NewRequest(http.MethodGet, "/v1/quests/s4", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var status quest.Status
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.Equal(t, "s4", status.ID)
	assert.Equal(t, "Ryo", status.Name)
	assert.Equal(t, "Recover the stolen temple bell.", status.Goal)
	assert.Equal(t, 25.0, status.ProgressPct)
	assert.Equal(t, 10, status.Stage)
	assert.Equal(t, 40, status.TotalStages)
	assert.Equal(t, 230, status.ZenPoints)
	assert.Equal(t, "Apprentice", status.Level)
	assert.Equal(t, []string{"Second scene.", "First scene."}, status.RecentScenes)
}

func TestQuestHandler_Interrupt(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, mocks := newTestQuestHandler(t, logger)
	seedSession(mocks, "s5")

	req := httptest.NewRequest(http.MethodDelete, "/v1/quests/s5", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var reply quest.Reply
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&reply))
	assert.True(t, reply.Ended)
	assert.Equal(t, quest.OutcomeInterrupted, reply.Outcome)
	assert.Contains(t, reply.Text, "interrupted")

	assert.Equal(t, 0, mocks.store.Len(), "session should be removed")
	assert.Contains(t, mocks.events.Types(), quest.EventQuestInterrupted)
}
