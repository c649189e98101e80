package bot

import (
	"context"
	"sync"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
	"github.com/heartmarshall/exegesis-backend/internal/generation"
)

var (
	_ mediaFetcher = &mediaFetcherMock{}
	_ replier      = &replierMock{}
	_ transcriber  = &transcriberMock{}
	_ generator    = &generatorMock{}
	_ accountRepo  = &accountRepoMock{}
	_ briefRepo    = &briefRepoMock{}
	_ txManager    = &txManagerMock{}
)

// ---------------------------------------------------------------------------
// mediaFetcherMock
// ---------------------------------------------------------------------------

type mediaFetcherMock struct {
	FetchFileFunc func(ctx context.Context, fileID string) ([]byte, string, error)

	calls struct {
		FetchFile []struct {
			FileID string
		}
	}
	lockFetchFile sync.RWMutex
}

func (mock *mediaFetcherMock) FetchFile(ctx context.Context, fileID string) ([]byte, string, error) {
	if mock.FetchFileFunc == nil {
		panic("mediaFetcherMock.FetchFileFunc: method is nil but mediaFetcher.FetchFile was just called")
	}
	mock.lockFetchFile.Lock()
	mock.calls.FetchFile = append(mock.calls.FetchFile, struct{ FileID string }{FileID: fileID})
	mock.lockFetchFile.Unlock()
	return mock.FetchFileFunc(ctx, fileID)
}

func (mock *mediaFetcherMock) FetchFileCalls() []struct{ FileID string } {
	mock.lockFetchFile.RLock()
	defer mock.lockFetchFile.RUnlock()
	return mock.calls.FetchFile
}

// ---------------------------------------------------------------------------
// replierMock
// ---------------------------------------------------------------------------

type replierMock struct {
	SendMessageFunc func(ctx context.Context, chatID int64, text string) error

	calls struct {
		SendMessage []struct {
			ChatID int64
			Text   string
		}
	}
	lockSendMessage sync.RWMutex
}

func (mock *replierMock) SendMessage(ctx context.Context, chatID int64, text string) error {
	mock.lockSendMessage.Lock()
	mock.calls.SendMessage = append(mock.calls.SendMessage, struct {
		ChatID int64
		Text   string
	}{ChatID: chatID, Text: text})
	mock.lockSendMessage.Unlock()
	if mock.SendMessageFunc == nil {
		return nil
	}
	return mock.SendMessageFunc(ctx, chatID, text)
}

func (mock *replierMock) SendMessageCalls() []struct {
	ChatID int64
	Text   string
} {
	mock.lockSendMessage.RLock()
	defer mock.lockSendMessage.RUnlock()
	return mock.calls.SendMessage
}

// ---------------------------------------------------------------------------
// transcriberMock
// ---------------------------------------------------------------------------

type transcriberMock struct {
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (string, error)

	calls struct {
		Transcribe []struct {
			Audio    []byte
			Filename string
		}
	}
	lockTranscribe sync.RWMutex
}

func (mock *transcriberMock) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if mock.TranscribeFunc == nil {
		panic("transcriberMock.TranscribeFunc: method is nil but transcriber.Transcribe was just called")
	}
	mock.lockTranscribe.Lock()
	mock.calls.Transcribe = append(mock.calls.Transcribe, struct {
		Audio    []byte
		Filename string
	}{Audio: audio, Filename: filename})
	mock.lockTranscribe.Unlock()
	return mock.TranscribeFunc(ctx, audio, filename)
}

func (mock *transcriberMock) TranscribeCalls() []struct {
	Audio    []byte
	Filename string
} {
	mock.lockTranscribe.RLock()
	defer mock.lockTranscribe.RUnlock()
	return mock.calls.Transcribe
}

// ---------------------------------------------------------------------------
// generatorMock
// ---------------------------------------------------------------------------

type generatorMock struct {
	GenerateFunc func(ctx context.Context, transcript string) (*generation.Result, error)

	calls struct {
		Generate []struct {
			Transcript string
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *generatorMock) Generate(ctx context.Context, transcript string) (*generation.Result, error) {
	if mock.GenerateFunc == nil {
		panic("generatorMock.GenerateFunc: method is nil but generator.Generate was just called")
	}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, struct{ Transcript string }{Transcript: transcript})
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, transcript)
}

func (mock *generatorMock) GenerateCalls() []struct{ Transcript string } {
	mock.lockGenerate.RLock()
	defer mock.lockGenerate.RUnlock()
	return mock.calls.Generate
}

// ---------------------------------------------------------------------------
// accountRepoMock
// ---------------------------------------------------------------------------

type accountRepoMock struct {
	UpsertByTelegramChatIDFunc func(ctx context.Context, acc *domain.Account) (*domain.Account, error)

	calls struct {
		UpsertByTelegramChatID []struct {
			Acc *domain.Account
		}
	}
	lockUpsertByTelegramChatID sync.RWMutex
}

func (mock *accountRepoMock) UpsertByTelegramChatID(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	if mock.UpsertByTelegramChatIDFunc == nil {
		panic("accountRepoMock.UpsertByTelegramChatIDFunc: method is nil but accountRepo.UpsertByTelegramChatID was just called")
	}
	mock.lockUpsertByTelegramChatID.Lock()
	mock.calls.UpsertByTelegramChatID = append(mock.calls.UpsertByTelegramChatID, struct{ Acc *domain.Account }{Acc: acc})
	mock.lockUpsertByTelegramChatID.Unlock()
	return mock.UpsertByTelegramChatIDFunc(ctx, acc)
}

func (mock *accountRepoMock) UpsertByTelegramChatIDCalls() []struct{ Acc *domain.Account } {
	mock.lockUpsertByTelegramChatID.RLock()
	defer mock.lockUpsertByTelegramChatID.RUnlock()
	return mock.calls.UpsertByTelegramChatID
}

// ---------------------------------------------------------------------------
// briefRepoMock
// ---------------------------------------------------------------------------

type briefRepoMock struct {
	CreateFunc func(ctx context.Context, b *domain.Brief) (*domain.Brief, error)

	calls struct {
		Create []struct {
			B *domain.Brief
		}
	}
	lockCreate sync.RWMutex
}

func (mock *briefRepoMock) Create(ctx context.Context, b *domain.Brief) (*domain.Brief, error) {
	if mock.CreateFunc == nil {
		panic("briefRepoMock.CreateFunc: method is nil but briefRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ B *domain.Brief }{B: b})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, b)
}

func (mock *briefRepoMock) CreateCalls() []struct{ B *domain.Brief } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

// ---------------------------------------------------------------------------
// txManagerMock
// ---------------------------------------------------------------------------

// txManagerMock runs fn inline. Committed reports whether the last call
// finished without error.
type txManagerMock struct {
	mu        sync.Mutex
	Runs      int
	Committed bool
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	mock.mu.Lock()
	mock.Runs++
	mock.mu.Unlock()

	err := fn(ctx)

	mock.mu.Lock()
	mock.Committed = err == nil
	mock.mu.Unlock()
	return err
}
