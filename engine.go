// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package minuted

import (
	"log/slog"

	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/ai/openai"
	"github.com/poiesic/minuted/answer"
	"github.com/poiesic/minuted/ingestion"
	"github.com/poiesic/minuted/search"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/storage/badger"
	"github.com/poiesic/minuted/storage/qdrant"
)

// Engine wires the storage backends and the AI provider together and
// hands out the domain components built on them: the ingestion pipeline,
// the retriever and the answerer.
type Engine struct {
	backend  *badger.Backend
	meetings storage.MeetingRepository
	jobs     storage.JobRepository
	asks     storage.AskMemoryRepository
	index    storage.VectorIndex
	provider ai.AIProvider
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig   *ai.Config
	qdrantOpts []qdrant.Option
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithQdrantOptions passes options through to the vector index client.
func WithQdrantOptions(opts ...qdrant.Option) EngineOption {
	return func(o *engineOptions) {
		o.qdrantOpts = append(o.qdrantOpts, opts...)
	}
}

// NewEngine opens the badger store at dataPath (in-memory when empty),
// connects the vector index at qdrantLocation, and initializes the AI
// provider.
func NewEngine(dataPath, qdrantLocation string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dataPath, dataPath == "")
	if err != nil {
		return nil, err
	}

	meetings := badger.NewMeetingRepository(backend)
	jobs := badger.NewJobRepository(backend)

	asks, err := badger.NewAskMemoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index, err := qdrant.NewIndex(qdrantLocation, options.qdrantOpts...)
	if err != nil {
		asks.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		index.Close()
		asks.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:  backend,
		meetings: meetings,
		jobs:     jobs,
		asks:     asks,
		index:    index,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider, the vector index and the store.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing vector index", "err", err)
	}

	if err := e.asks.Close(); err != nil {
		e.logger.Error("error closing ask memory", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) MeetingRepository() storage.MeetingRepository {
	return e.meetings
}

func (e *Engine) JobRepository() storage.JobRepository {
	return e.jobs
}

func (e *Engine) AskMemoryRepository() storage.AskMemoryRepository {
	return e.asks
}

func (e *Engine) VectorIndex() storage.VectorIndex {
	return e.index
}

func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.meetings, e.jobs, e.index, e.provider, opts...)
}

func (e *Engine) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(e.index, e.provider, opts...)
}

func (e *Engine) NewAnswerer(opts ...answer.Option) (*answer.Answerer, error) {
	retriever, err := e.NewRetriever()
	if err != nil {
		return nil, err
	}
	return answer.NewAnswerer(retriever, e.provider, e.meetings, e.asks, opts...)
}
