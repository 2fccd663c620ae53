package v1

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/lorehq/lore-web/internal/core/domain"
)

// ---- fake auth gateway ----

type fakeAuthGateway struct {
	sessionsByToken map[string]*domain.Session

	signInSession *domain.Session
	signInErr     error
	signUpErr     error
	signOutErr    error

	signInCalls  int
	signUpCalls  int
	signOutCalls int

	lastEmail    string
	lastPassword string
	lastToken    string
}

func (f *fakeAuthGateway) SessionFromToken(ctx context.Context, token string) (*domain.Session, error) {
	if s, ok := f.sessionsByToken[token]; ok {
		return s, nil
	}
	return nil, nil
}

func (f *fakeAuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	f.signInCalls++
	f.lastEmail = email
	f.lastPassword = password
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSession, nil
}

func (f *fakeAuthGateway) SignUp(ctx context.Context, email, password string) error {
	f.signUpCalls++
	f.lastEmail = email
	f.lastPassword = password
	return f.signUpErr
}

func (f *fakeAuthGateway) SignOut(ctx context.Context, token string) error {
	f.signOutCalls++
	f.lastToken = token
	return f.signOutErr
}

// ---- fake profile repository ----

type fakeProfileRepo struct {
	selectRet *domain.Profile
	selectErr error
	upsertErr error

	selectCalls int
	upserts     []domain.Profile
}

func (f *fakeProfileRepo) Select(ctx context.Context, userID string) (*domain.Profile, error) {
	f.selectCalls++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectRet, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	f.upserts = append(f.upserts, *p)
	return f.upsertErr
}

// ---- fake blob store ----

type fakeUpload struct {
	Bucket      string
	Path        string
	ContentType string
	Data        []byte
}

type fakeBlobStore struct {
	uploadErr error
	uploads   []fakeUpload
}

func (f *fakeBlobStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, _ := io.ReadAll(r)
	f.uploads = append(f.uploads, fakeUpload{Bucket: bucket, Path: path, ContentType: contentType, Data: data})
	return nil
}

func (f *fakeBlobStore) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

// ---- fake chat model ----

// fakeChatModel implements domain.ChatModel. When firstGate is set, the
// first Send/DescribeImage call signals firstEntered and then blocks until
// the gate closes, so tests can interleave a second call deterministically.
type fakeChatModel struct {
	mu sync.Mutex

	newErr      error
	reply       string
	sendErr     error
	describeRet string
	describeErr error

	firstEntered chan struct{}
	firstGate    chan struct{}

	newCalls      int
	describeCalls int32
	sendCalls     int32
	sentTexts     []string
}

func (f *fakeChatModel) NewConversation(ctx context.Context) (domain.Conversation, error) {
	f.mu.Lock()
	f.newCalls++
	f.mu.Unlock()
	if f.newErr != nil {
		return nil, f.newErr
	}
	return &fakeConversation{model: f}, nil
}

func (f *fakeChatModel) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if atomic.AddInt32(&f.describeCalls, 1) == 1 && f.firstGate != nil {
		close(f.firstEntered)
		<-f.firstGate
	}
	return f.describeRet, f.describeErr
}

type fakeConversation struct {
	model *fakeChatModel
}

func (c *fakeConversation) Send(ctx context.Context, text string) (string, error) {
	f := c.model
	if atomic.AddInt32(&f.sendCalls, 1) == 1 && f.firstGate != nil {
		close(f.firstEntered)
		<-f.firstGate
	}
	f.mu.Lock()
	f.sentTexts = append(f.sentTexts, text)
	f.mu.Unlock()
	return f.reply, f.sendErr
}
