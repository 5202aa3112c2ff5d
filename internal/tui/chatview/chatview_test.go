package chatview

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"createmvp/internal/chat"
	"createmvp/internal/config"
	"createmvp/internal/logging"
	"createmvp/internal/tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu          sync.Mutex
	requests    []chat.Request
	reply       string
	completeErr error
	creds       []chat.Credential
	credsErr    error
	history     []chat.Message
	historyErr  error
}

func (f *fakeClient) Complete(_ context.Context, req chat.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.completeErr
}

func (f *fakeClient) Credentials(context.Context) ([]chat.Credential, error) {
	return f.creds, f.credsErr
}

func (f *fakeClient) History(context.Context) ([]chat.Message, error) {
	return f.history, f.historyErr
}

var openAIKey = []chat.Credential{{ID: "1", Provider: "openai", CreatedAt: "2025-01-01T00:00:00Z"}}

func testContext(t *testing.T, client chat.Client, creds []chat.Credential) helpers.UIContext {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	cfg := config.DefaultConfig()
	ctx := helpers.NewUIContext(100, 40, &cfg, logger)
	ctx.Session = chat.NewSession(logger, cfg.PreserveContext)
	ctx.Session.SetCredentials(creds)
	if client != nil {
		ctx.Client = client
	}
	return ctx
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds every resulting message back into m.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(m, c)
		}
		return
	}
	if msg != nil {
		m.Update(msg)
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(testContext(t, &fakeClient{}, nil))

	assert.Equal(t, chat.DefaultModelID, m.SelectedModel().ID)
	assert.Contains(t, m.View(), "Model: GPT-4o (openai)")
	assert.Contains(t, m.View(), "No messages yet.")
}

func TestNew_ConfiguredModel(t *testing.T) {
	ctx := testContext(t, &fakeClient{}, nil)
	ctx.Config.DefaultModel = "claude-3-5-haiku"

	m := New(ctx)
	assert.Equal(t, "anthropic", m.SelectedModel().Provider)

	ctx.Config.DefaultModel = "unknown-model"
	assert.Equal(t, chat.DefaultModelID, New(ctx).SelectedModel().ID)
}

func TestSubmit(t *testing.T) {
	client := &fakeClient{reply: "Here is a plan."}
	ctx := testContext(t, client, openAIKey)
	m := New(ctx)

	m.Update(keyRunes("Plan my MVP"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value(), "accepted input is cleared")
	assert.Equal(t, chat.StateAwaitingResponse, ctx.Session.State())
	assert.Contains(t, m.transcript.View(), "Thinking...")

	run(m, cmd)

	msgs := ctx.Session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Plan my MVP", msgs[0].Content)
	assert.Equal(t, "Here is a plan.", msgs[1].Content)
	assert.Equal(t, chat.StateIdle, ctx.Session.State())
	assert.Contains(t, m.transcript.View(), "Here is a plan.")

	require.Len(t, client.requests, 1)
	assert.Equal(t, "gpt-4o", client.requests[0].Model)
}

func TestSubmit_EmptyIsIgnored(t *testing.T) {
	ctx := testContext(t, &fakeClient{}, openAIKey)
	m := New(ctx)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, ctx.Session.Messages())
}

func TestSubmit_WhileAwaitingIsNoOp(t *testing.T) {
	ctx := testContext(t, &fakeClient{}, openAIKey)
	m := New(ctx)
	_, err := ctx.Session.Submit("first", "gpt-4o")
	require.NoError(t, err)

	m.Update(keyRunes("second"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, ctx.Session.Messages(), 2)
	assert.Equal(t, "second", m.input.Value(), "rejected input is kept")
	assert.Equal(t, "Waiting for the current reply...", m.layout.Notice())
}

func TestSubmit_NeedsConfiguration(t *testing.T) {
	ctx := testContext(t, &fakeClient{}, nil)
	m := New(ctx)

	m.Update(keyRunes("hello"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, m.needsConfig)
	assert.Empty(t, ctx.Session.Messages())
	assert.Equal(t, "Configuration needed: add an API key for openai at https://createmvp.com/settings, then press ctrl+r.", m.layout.Notice())
	assert.Contains(t, m.View(), "configuration needed")
}

func TestSubmit_NoClient(t *testing.T) {
	ctx := testContext(t, nil, openAIKey)
	m := New(ctx)

	m.Update(keyRunes("hello"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, m.layout.Notice(), "createmvp login")
}

func TestSubmit_Failure(t *testing.T) {
	client := &fakeClient{completeErr: &chat.RequestError{Op: "complete", StatusCode: 502}}
	ctx := testContext(t, client, openAIKey)
	m := New(ctx)

	m.Update(keyRunes("Plan my MVP"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)

	msgs := ctx.Session.Messages()
	require.Len(t, msgs, 1, "the placeholder is removed")
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Contains(t, m.View(), "request failed: complete: HTTP 502")
	assert.ErrorIs(t, ctx.Session.LastError(), chat.ErrRequestFailed)
}

func TestNextModel(t *testing.T) {
	m := New(testContext(t, &fakeClient{}, nil))
	m.needsConfig = true

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "gpt-4o-mini", m.SelectedModel().ID)
	assert.False(t, m.needsConfig)
}

func TestPreserveContextToggle(t *testing.T) {
	ctx := testContext(t, &fakeClient{}, nil)
	m := New(ctx)
	require.True(t, ctx.Session.PreserveContext())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.False(t, ctx.Session.PreserveContext())
	assert.Contains(t, m.View(), "Preserve context: off")
}

func TestInit_LoadsHistoryAndCredentials(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")
	client := &fakeClient{
		creds: openAIKey,
		history: []chat.Message{
			{Role: chat.RoleUser, Content: "Earlier question", Model: "gpt-4o", Timestamp: "2025-01-01T10:00:00Z"},
			{Role: chat.RoleAssistant, Content: "Earlier answer", Model: "gpt-4o", Timestamp: "2025-01-01T10:00:05Z"},
		},
	}
	ctx := testContext(t, client, nil)
	m := New(ctx)

	run(m, m.Init())

	assert.Len(t, ctx.Session.Messages(), 2)
	assert.True(t, ctx.Session.HasCredential("gpt-4o"))
	assert.False(t, m.needsConfig)
	view := m.transcript.View()
	assert.Contains(t, view, "Earlier question")
	assert.Contains(t, view, "Earlier answer")
}

func TestInit_LoadErrors(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")
	client := &fakeClient{
		historyErr: &chat.RequestError{Op: "history", StatusCode: 500},
		credsErr:   &chat.RequestError{Op: "credentials", StatusCode: 401},
	}
	m := New(testContext(t, client, nil))

	run(m, m.Init())

	assert.Contains(t, m.layout.Notice(), "Chat history is unavailable")
	require.Error(t, m.layout.GetError())
	assert.Contains(t, m.layout.GetError().Error(), "HTTP 401")
}

func TestRefreshCredentials(t *testing.T) {
	client := &fakeClient{creds: openAIKey}
	ctx := testContext(t, client, nil)
	m := New(ctx)
	m.needsConfig = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	run(m, cmd)

	assert.False(t, m.needsConfig)
	assert.Empty(t, m.layout.Notice())
}

func TestBack(t *testing.T) {
	m := New(testContext(t, &fakeClient{}, nil))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, helpers.NavigateToMainMenuMsg{}, cmd())
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "not a time", formatTimestamp("not a time"))
	want := time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC).Local().Format("Jan 2 15:04")
	assert.Equal(t, want, formatTimestamp("2025-03-04T05:06:00Z"))
}

func TestChatFlow(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")
	client := &fakeClient{reply: "Start with a landing page.", creds: openAIKey}
	m := New(testContext(t, client, openAIKey))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	waitForString(t, tm, "Plan your MVP")
	tm.Type("What should I build first?")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForString(t, tm, "landing page")

	require.NoError(t, tm.Quit())
}

func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)
}
