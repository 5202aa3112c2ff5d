// Package chat manages a chat session with the CreateMVP completion API: the
// message list, the single in-flight request and the credential gate.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"createmvp/internal/logging"
)

// ContextWindow is how many prior messages accompany a new one.
const ContextWindow = 10

type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// WireMessage is a message as sent to the completion endpoint.
type WireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is the body of one completion call.
type Request struct {
	Model           string        `json:"model"`
	Messages        []WireMessage `json:"messages"`
	PreserveContext bool          `json:"preserveContext"`
}

// Client is the remote side of a session.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Credentials(ctx context.Context) ([]Credential, error)
	History(ctx context.Context) ([]Message, error)
}

// Session is safe for concurrent use. At most one request is in flight and
// at most one placeholder message exists at any time.
type Session struct {
	mu sync.Mutex

	logger          *logging.AppLogger
	messages        []Message
	state           State
	credentials     []Credential
	preserveContext bool
	lastErr         error

	now func() time.Time
}

func NewSession(logger *logging.AppLogger, preserveContext bool) *Session {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Session{
		logger:          logger,
		preserveContext: preserveContext,
		now:             time.Now,
	}
}

// Messages returns a copy of the message list, placeholder included.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) PreserveContext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preserveContext
}

func (s *Session) SetPreserveContext(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preserveContext = on
}

// LastError is the failure of the most recent request, cleared by the next
// accepted submission.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Credentials() []Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.credentials)
}

// SetCredentials replaces the cached credential list.
func (s *Session) SetCredentials(creds []Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = slices.Clone(creds)
}

// HasCredential reports whether the provider of modelID has a cached credential.
func (s *Session) HasCredential(modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasCredentialLocked(modelID)
}

func (s *Session) hasCredentialLocked(modelID string) bool {
	provider := ProviderFor(modelID)
	if provider == "" {
		return false
	}
	for _, c := range s.credentials {
		if strings.EqualFold(c.Provider, provider) {
			return true
		}
	}
	return false
}

// Submit validates content for model and, if accepted, appends the user
// message and the placeholder and returns the request to send. A rejected
// submission leaves the session untouched.
func (s *Session) Submit(content, model string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(content) == "" {
		return Request{}, ErrEmptyMessage
	}
	if s.state == StateAwaitingResponse {
		return Request{}, ErrRequestInFlight
	}
	if !s.hasCredentialLocked(model) {
		return Request{}, ErrCredentialRequired
	}

	req := Request{
		Model:           model,
		Messages:        s.contextWindowLocked(model),
		PreserveContext: s.preserveContext,
	}
	req.Messages = append(req.Messages, WireMessage{Role: RoleUser, Content: content})

	now := s.now()
	s.messages = append(s.messages,
		newMessage(RoleUser, content, model, now),
		newMessage(RoleAssistant, Pending, model, now),
	)
	s.lastErr = nil
	s.setStateLocked(StateAwaitingResponse)
	return req, nil
}

// contextWindowLocked returns the trailing ContextWindow messages to send with
// a new one, placeholders excluded. Without preserved context only messages
// of the selected model are considered.
func (s *Session) contextWindowLocked(model string) []WireMessage {
	var window []WireMessage
	for _, m := range s.messages {
		if m.IsPending() {
			continue
		}
		if !s.preserveContext && m.Model != model {
			continue
		}
		window = append(window, WireMessage{Role: m.Role, Content: m.Content})
	}
	if len(window) > ContextWindow {
		window = window[len(window)-ContextWindow:]
	}
	return window
}

// Resolve replaces the placeholder in place with the reply.
func (s *Session) Resolve(reply string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.pendingIndexLocked()
	if s.state != StateAwaitingResponse || i < 0 {
		return Message{}, ErrNotAwaiting
	}
	s.messages[i].Content = reply
	s.messages[i].Timestamp = s.now().UTC().Format(time.RFC3339)
	s.setStateLocked(StateIdle)
	return s.messages[i], nil
}

// Fail removes the placeholder, keeps the user message and records err.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.pendingIndexLocked(); i >= 0 {
		s.messages = slices.Delete(s.messages, i, i+1)
	}
	s.lastErr = err
	if s.state == StateAwaitingResponse {
		s.logger.Warn("Chat request failed", "error", err)
	}
	s.setStateLocked(StateIdle)
}

func (s *Session) pendingIndexLocked() int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].IsPending() {
			return i
		}
	}
	return -1
}

func (s *Session) setStateLocked(next State) {
	if s.state == next {
		return
	}
	s.logger.LogStateTransition("ChatSession", s.state.String(), next.String())
	s.state = next
}

// Send submits content and performs the completion call synchronously. Any
// client error is reported as a *RequestError.
func (s *Session) Send(ctx context.Context, client Client, content, model string) (Message, error) {
	req, err := s.Submit(content, model)
	if err != nil {
		return Message{}, err
	}
	return s.Complete(ctx, client, req)
}

// Complete performs the call for an accepted request and resolves or fails
// the placeholder with its outcome.
func (s *Session) Complete(ctx context.Context, client Client, req Request) (Message, error) {
	start := time.Now()
	reply, err := client.Complete(ctx, req)
	s.logger.LogPerformance("chat_complete", start)
	if err != nil {
		err = asRequestError("complete", err)
		s.Fail(err)
		return Message{}, err
	}
	return s.Resolve(reply)
}

// LoadHistory seeds an idle, empty session from the history endpoint.
// Otherwise it does nothing.
func (s *Session) LoadHistory(ctx context.Context, client Client) error {
	s.mu.Lock()
	ready := s.state == StateIdle && len(s.messages) == 0
	s.mu.Unlock()
	if !ready {
		return nil
	}

	history, err := client.History(ctx)
	if err != nil {
		return asRequestError("history", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle || len(s.messages) != 0 {
		return nil
	}
	for _, m := range history {
		if m.IsPending() || (m.Role != RoleUser && m.Role != RoleAssistant) {
			continue
		}
		s.messages = append(s.messages, m)
	}
	s.logger.Debug("Chat history loaded", "messages", len(s.messages))
	return nil
}

// RefreshCredentials replaces the cached credential list from the API.
func (s *Session) RefreshCredentials(ctx context.Context, client Client) error {
	creds, err := client.Credentials(ctx)
	if err != nil {
		return asRequestError("credentials", err)
	}
	s.SetCredentials(creds)
	return nil
}

func asRequestError(op string, err error) error {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return err
	}
	return &RequestError{Op: op, Err: err}
}
