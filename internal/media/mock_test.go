package media

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/reelforge/adgen-cli/pkg/elevenlabs"
	"github.com/reelforge/adgen-cli/pkg/fal"
	"github.com/reelforge/adgen-cli/pkg/muxvideo"
)

// --- fal Mock ---

type mockFalClient struct {
	mock.Mock
}

func (m *mockFalClient) Submit(ctx context.Context, model string, req fal.VideoRequest) (*fal.SubmitResponse, error) {
	args := m.Called(ctx, model, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fal.SubmitResponse), args.Error(1)
}

func (m *mockFalClient) GetStatus(ctx context.Context, model, requestID string) (*fal.StatusResponse, error) {
	args := m.Called(ctx, model, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fal.StatusResponse), args.Error(1)
}

func (m *mockFalClient) GetResult(ctx context.Context, model, requestID string) (*fal.ResultResponse, error) {
	args := m.Called(ctx, model, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fal.ResultResponse), args.Error(1)
}

// --- ElevenLabs Mock ---

type mockTTSClient struct {
	mock.Mock
}

func (m *mockTTSClient) Synthesize(ctx context.Context, req elevenlabs.SynthesizeRequest) (*elevenlabs.SynthesizeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*elevenlabs.SynthesizeResponse), args.Error(1)
}

// --- Mux Mock ---

type mockHostClient struct {
	mock.Mock
}

func (m *mockHostClient) CreateUpload(ctx context.Context) (*muxvideo.Upload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*muxvideo.Upload), args.Error(1)
}

func (m *mockHostClient) PutFile(ctx context.Context, uploadURL, filePath string) error {
	args := m.Called(ctx, uploadURL, filePath)
	return args.Error(0)
}

func (m *mockHostClient) GetUpload(ctx context.Context, uploadID string) (*muxvideo.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*muxvideo.Upload), args.Error(1)
}

func (m *mockHostClient) GetAsset(ctx context.Context, assetID string) (*muxvideo.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*muxvideo.Asset), args.Error(1)
}

// --- Assembler Mock ---

type mockAssembler struct {
	mock.Mock
}

func (m *mockAssembler) Concat(ctx context.Context, sceneFiles []string, outPath string) error {
	args := m.Called(ctx, sceneFiles, outPath)
	return args.Error(0)
}

func (m *mockAssembler) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	args := m.Called(ctx, videoPath, audioPath, outPath)
	return args.Error(0)
}
